package entity

// DiffLineType 差异行类型
type DiffLineType string

const (
	DiffLineUnchanged DiffLineType = "unchanged"
	DiffLineAdded     DiffLineType = "added"
	DiffLineRemoved   DiffLineType = "removed"
)

// DiffLine 行级差异
type DiffLine struct {
	Type DiffLineType `json:"type"`
	Text string       `json:"text"`
}
