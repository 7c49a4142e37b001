package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ContentVersion 文档内容版本（diff / 评分对比的基线）
type ContentVersion struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentID  string    `json:"document_id" gorm:"type:varchar(128);not null;uniqueIndex:idx_content_versions_doc_no,priority:1"`
	VersionNo   int       `json:"version_no" gorm:"not null;uniqueIndex:idx_content_versions_doc_no,priority:2"`
	Label       string    `json:"label,omitempty" gorm:"type:varchar(128)"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ContentHash string    `json:"content_hash" gorm:"type:char(64);not null"`
	CreatedBy   *string   `json:"created_by,omitempty" gorm:"type:varchar(128)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ContentVersion) TableName() string {
	return "content_versions"
}

// NewContentVersion 创建新版本（version_no 由仓储分配）
func NewContentVersion(documentID, label, content string) *ContentVersion {
	return &ContentVersion{
		DocumentID:  documentID,
		Label:       label,
		Content:     content,
		ContentHash: ContentHash(content),
	}
}

// ContentHash 计算文本内容的 SHA-256 摘要
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
