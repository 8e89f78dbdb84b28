package service

import (
	"time"

	"github.com/mowen-next/internal/models"
)

// CreatorSummary 作者摘要
// 公开响应只暴露 id/昵称/头像，不含邮箱等字段。
type CreatorSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// PostView 文章响应结构
type PostView struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Content       string         `json:"content"`
	Excerpt       string         `json:"excerpt"`
	FeaturedImage string         `json:"featured_image"`
	Published     bool           `json:"published"`
	PublishedAt   *time.Time     `json:"published_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	CreatedBy     CreatorSummary `json:"created_by"`
}

// PostListResult 文章分页结果
type PostListResult struct {
	Posts      []PostView `json:"posts"`
	TotalCount int64      `json:"total_count"`
	HasMore    bool       `json:"has_more"`
	NextPage   *int       `json:"next_page"`
}

// NewPostView 从模型构建响应结构
func NewPostView(post *models.Post) PostView {
	view := PostView{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Content:       post.Content,
		Excerpt:       post.Excerpt,
		FeaturedImage: post.FeaturedImage,
		Published:     post.Published,
		PublishedAt:   post.PublishedAt,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
	if post.CreatedBy.ID != 0 {
		view.CreatedBy = CreatorSummary{
			ID:    post.CreatedBy.ID,
			Name:  post.CreatedBy.Name,
			Image: post.CreatedBy.Image,
		}
	} else {
		view.CreatedBy = CreatorSummary{ID: post.CreatedByID}
	}
	return view
}

// NewPostViews 批量构建响应结构
func NewPostViews(posts []models.Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, NewPostView(&posts[i]))
	}
	return views
}
