// Package entity 定义领域实体
package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// TemplateParameter 模板可配置参数
type TemplateParameter struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label" yaml:"label"`
	Type     string   `json:"type" yaml:"type"`
	Required bool     `json:"required,omitempty" yaml:"required"`
	Default  string   `json:"default,omitempty" yaml:"default"`
	Options  []string `json:"options,omitempty" yaml:"options"`
}

// TemplateParameters 以 jsonb 存储的参数列表
type TemplateParameters []TemplateParameter

// Value 实现 driver.Valuer
func (p TemplateParameters) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Scan 实现 sql.Scanner
func (p *TemplateParameters) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported template parameters type %T", src)
	}
	return json.Unmarshal(raw, p)
}

// Template 内容生成模板（运行期只读）
type Template struct {
	ID            string             `json:"id" yaml:"id" gorm:"type:varchar(64);primaryKey"`
	Name          string             `json:"name" yaml:"name" gorm:"type:varchar(255);not null"`
	Description   string             `json:"description" yaml:"description" gorm:"type:text"`
	Tags          pq.StringArray     `json:"tags" yaml:"tags" gorm:"type:text[]"`
	EstimatedTime string             `json:"estimated_time" yaml:"estimated_time" gorm:"type:varchar(32)"`
	Parameters    TemplateParameters `json:"parameters" yaml:"parameters" gorm:"type:jsonb"`
	// Position 目录顺序（兜底补齐时按此顺序）
	Position  int       `json:"-" yaml:"-" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"-" yaml:"-" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" yaml:"-" gorm:"autoUpdateTime"`
}

func (Template) TableName() string {
	return "templates"
}

// SuggestedTemplate 推荐结果（派生值，不持久化）
type SuggestedTemplate struct {
	TemplateID   string `json:"template_id"`
	TemplateName string `json:"template_name"`
	Summary      string `json:"summary"`
	Reason       string `json:"reason"`
}
