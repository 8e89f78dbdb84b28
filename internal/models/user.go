package models

import "time"

// User 用户表
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`              // 主键
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	Name         string    `gorm:"default:''" json:"name"`            // 昵称
	Image        string    `json:"image"`                             // 头像地址
	Role         string    `gorm:"default:'USER';index" json:"role"`  // 角色（ADMIN/USER）
	PasswordHash string    `json:"-"`                                 // 密码哈希（联邦账号为空）
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
