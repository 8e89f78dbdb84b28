package models

import "time"

// Post 文章表
// 删除为物理删除，不做软删除
type Post struct {
	ID            uint       `gorm:"primarykey" json:"id"`                 // 主键
	Title         string     `gorm:"not null" json:"title"`                // 标题
	Slug          string     `gorm:"uniqueIndex;not null" json:"slug"`     // 唯一标识
	Content       string     `gorm:"not null" json:"content"`              // 正文（Markdown）
	Excerpt       string     `json:"excerpt"`                              // 摘要
	FeaturedImage string     `json:"featured_image"`                       // 题图
	Published     bool       `gorm:"default:false;index" json:"published"` // 是否发布
	PublishedAt   *time.Time `gorm:"index" json:"published_at"`            // 发布时间
	CreatedByID   uint       `gorm:"index;not null" json:"created_by_id"`
	CreatedBy     User       `gorm:"foreignKey:CreatedByID" json:"-"` // 作者
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
