package entity

// RecordStatus 后端记录状态（任务 / 运行 / 线程 / 项目共用）
type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusRunning   RecordStatus = "running"
	StatusCompleted RecordStatus = "completed"
	StatusFailed    RecordStatus = "failed"
	StatusCancelled RecordStatus = "cancelled"
)

// Terminal 是否为终态
func (s RecordStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Task 看板任务
type Task struct {
	TaskID     string         `json:"task_id"`
	Title      string         `json:"title"`
	Status     RecordStatus   `json:"status"`
	AssignedTo string         `json:"assigned_to"`
	DueDate    string         `json:"due_date"`
	Metadata   map[string]any `json:"metadata"`
}

// Run 工作流运行记录
type Run struct {
	RunID      string         `json:"run_id"`
	ThreadID   string         `json:"thread_id"`
	Status     RecordStatus   `json:"status"`
	CreatedAt  string         `json:"created_at"`
	FinishedAt string         `json:"finished_at"`
	Output     map[string]any `json:"output"`
}

// Thread 对话线程
type Thread struct {
	ThreadID  string       `json:"thread_id"`
	Title     string       `json:"title"`
	Status    RecordStatus `json:"status"`
	ProjectID string       `json:"project_id"`
}

// Brand 品牌
type Brand struct {
	BrandID  string         `json:"brand_id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata"`
}

// Project 品牌下的项目
type Project struct {
	ProjectID string       `json:"project_id"`
	BrandID   string       `json:"brand_id"`
	Name      string       `json:"name"`
	Status    RecordStatus `json:"status"`
}

// Selection 看板当前选中的 品牌/项目/线程/运行
type Selection struct {
	BrandID   string `json:"brand_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	ThreadID  string `json:"thread_id,omitempty"`
	RunID     string `json:"run_id,omitempty"`
}
