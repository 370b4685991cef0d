package models

import (
	"time"

	"gorm.io/gorm"
)

// Post 博客文章（烹饪、时令、产地故事）
type Post struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`        // 唯一标识
	Title       string         `gorm:"type:varchar(300);not null" json:"title"` // 标题
	Summary     string         `gorm:"type:varchar(1000)" json:"summary"`       // 摘要
	Content     string         `gorm:"type:text" json:"content"`                // 正文（Markdown）
	Thumbnail   string         `gorm:"type:varchar(500)" json:"thumbnail"`      // 缩略图
	Author      string         `gorm:"type:varchar(120)" json:"author"`         // 作者
	Tags        StringArray    `gorm:"type:json" json:"tags"`                   // 标签
	IsActive    bool           `gorm:"default:false;index" json:"is_active"`    // 是否发布
	SortOrder   int            `gorm:"default:0;index" json:"order"`            // 排序权重
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`               // 发布时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
