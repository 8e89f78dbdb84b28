package repository

import (
	"github.com/mowen-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetPostStats() (PostStatsRow, error)
	ListRecentPosts(limit int) ([]models.Post, error)
}

// PostStatsRow 文章统计原始结果
type PostStatsRow struct {
	TotalPosts     int64
	PublishedPosts int64
	DraftPosts     int64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetPostStats 获取文章总量/已发布/草稿统计
func (r *GormDashboardRepository) GetPostStats() (PostStatsRow, error) {
	result := PostStatsRow{}

	if err := r.db.Model(&models.Post{}).Count(&result.TotalPosts).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Post{}).Where("published = ?", true).Count(&result.PublishedPosts).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Post{}).Where("published = ?", false).Count(&result.DraftPosts).Error; err != nil {
		return result, err
	}
	return result, nil
}

// ListRecentPosts 获取最近创建的文章
func (r *GormDashboardRepository) ListRecentPosts(limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 5
	}
	var posts []models.Post
	if err := r.db.Preload("CreatedBy").Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
