package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 后台管理员（商品、内容、配送时段维护）
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // 主键
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`         // 管理员账号
	PasswordHash string         `gorm:"not null" json:"-"`                            // 密码哈希
	DisplayName  string         `gorm:"type:varchar(120)" json:"display_name"`        // 显示名
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                  // Token 版本（改密后全量失效）
	IsSuper      bool           `gorm:"not null;default:false;index" json:"is_super"` // 超级管理员（免权限校验）
	Disabled     bool           `gorm:"not null;default:false" json:"disabled"`       // 是否停用
	LastLoginAt  *time.Time     `json:"last_login_at"`                                // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
