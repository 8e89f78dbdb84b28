package service

import (
	"github.com/mowen-next/internal/authz"
	"github.com/mowen-next/internal/repository"
)

// DashboardStats 后台统计响应结构
type DashboardStats struct {
	TotalPosts     int64      `json:"total_posts"`
	PublishedPosts int64      `json:"published_posts"`
	DraftPosts     int64      `json:"draft_posts"`
	RecentPosts    []PostView `json:"recent_posts"`
}

// DashboardService 后台统计逻辑
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建统计服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetStats 获取文章统计与最近文章
func (s *DashboardService) GetStats(sess authz.Session) (*DashboardStats, error) {
	if err := authz.EnsureAdmin(sess); err != nil {
		return nil, err
	}
	row, err := s.repo.GetPostStats()
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListRecentPosts(5)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalPosts:     row.TotalPosts,
		PublishedPosts: row.PublishedPosts,
		DraftPosts:     row.DraftPosts,
		RecentPosts:    NewPostViews(recent),
	}, nil
}
