package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mowen-next/internal/authz"
	"github.com/mowen-next/internal/cache"
	"github.com/mowen-next/internal/logger"
	"github.com/mowen-next/internal/models"
	"github.com/mowen-next/internal/queue"
	"github.com/mowen-next/internal/repository"
	"github.com/mowen-next/internal/slug"

	"gorm.io/gorm"
)

// CreatePostInput 创建文章入参
type CreatePostInput struct {
	Title         string `json:"title" binding:"required"`
	Content       string `json:"content" binding:"required"`
	Excerpt       string `json:"excerpt"`
	FeaturedImage string `json:"featured_image"`
	Published     bool   `json:"published"`
}

// UpdatePostInput 更新文章入参
// 指针字段区分“未提交”与“提交空值”，未提交的字段保持原值。
type UpdatePostInput struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Excerpt       *string `json:"excerpt"`
	FeaturedImage *string `json:"featured_image"`
	Published     *bool   `json:"published"`
}

// PostService 文章业务逻辑
type PostService struct {
	repo        repository.PostRepository
	queueClient *queue.Client
}

// NewPostService 创建文章服务
func NewPostService(repo repository.PostRepository, queueClient *queue.Client) *PostService {
	return &PostService{repo: repo, queueClient: queueClient}
}

// ListPublished 公开文章列表
// 只返回已发布文章，按发布时间倒序。
func (s *PostService) ListPublished(page, pageSize int) (*PostListResult, error) {
	published := true
	posts, total, err := s.repo.List(repository.PostListFilter{
		Page:        page,
		PageSize:    pageSize,
		Published:   &published,
		OrderBy:     "published_at DESC",
		WithCreator: true,
	})
	if err != nil {
		return nil, err
	}
	return buildListResult(posts, total, page, pageSize), nil
}

// GetPublishedBySlug 根据 slug 获取已发布文章
// 未发布与不存在统一返回 ErrNotFound，公开侧不暴露草稿的存在性。
func (s *PostService) GetPublishedBySlug(ctx context.Context, slugValue string) (*PostView, error) {
	if cache.Enabled() {
		var cached PostView
		hit, err := cache.GetPublicPost(ctx, slugValue, &cached)
		if err != nil {
			logger.Warnw("post_cache_read_failed", "slug", slugValue, "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	post, err := s.repo.GetBySlug(slugValue, true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	view := NewPostView(post)
	if cache.Enabled() {
		if err := cache.SetPublicPost(ctx, slugValue, view); err != nil {
			logger.Warnw("post_cache_write_failed", "slug", slugValue, "error", err)
		}
	}
	return &view, nil
}

// ListForAdmin 后台文章列表
// published 为 nil 时返回全部（含草稿），按创建时间倒序。
func (s *PostService) ListForAdmin(sess authz.Session, page, pageSize int, published *bool) (*PostListResult, error) {
	if err := authz.EnsureAdmin(sess); err != nil {
		return nil, err
	}
	posts, total, err := s.repo.List(repository.PostListFilter{
		Page:        page,
		PageSize:    pageSize,
		Published:   published,
		OrderBy:     "created_at DESC",
		WithCreator: true,
	})
	if err != nil {
		return nil, err
	}
	return buildListResult(posts, total, page, pageSize), nil
}

// GetByIDForAdmin 后台获取单篇文章（含草稿）
func (s *PostService) GetByIDForAdmin(sess authz.Session, id uint) (*PostView, error) {
	if err := authz.EnsureAdmin(sess); err != nil {
		return nil, err
	}
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	view := NewPostView(post)
	return &view, nil
}

// Create 创建文章
// slug 由标题归一化生成；最终唯一性由数据库唯一索引兜底，
// 并发下预检通过但写入冲突时同样映射为 ErrSlugExists。
func (s *PostService) Create(ctx context.Context, sess authz.Session, input CreatePostInput) (*PostView, error) {
	if err := authz.EnsureAdmin(sess); err != nil {
		return nil, err
	}
	// 纯空白等同于空值
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrEmptyContent
	}

	slugValue := slug.Generate(input.Title)
	if slugValue == "" {
		// 标题归一化后为空串，与占用冲突同等对待
		return nil, ErrSlugExists
	}
	count, err := s.repo.CountBySlug(slugValue, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	post := &models.Post{
		Title:         input.Title,
		Slug:          slugValue,
		Content:       input.Content,
		Excerpt:       input.Excerpt,
		FeaturedImage: input.FeaturedImage,
		Published:     input.Published,
		CreatedByID:   sess.UserID,
	}
	if input.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.repo.Create(post); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugExists
		}
		return nil, err
	}

	logger.Infow("post_created",
		"post_id", post.ID,
		"slug", post.Slug,
		"published", post.Published,
		"user_id", sess.UserID,
	)
	if post.Published {
		s.notifyPublishState(post.ID)
	}

	created, err := s.repo.GetByID(post.ID)
	if err != nil || created == nil {
		view := NewPostView(post)
		return &view, nil
	}
	view := NewPostView(created)
	return &view, nil
}

// Update 更新文章
// 标题变更会重新生成 slug；published 从 false 翻到 true 时补记发布时间，
// 从 true 翻到 false 时保留原发布时间（与 TogglePublish 的清空行为不同）。
func (s *PostService) Update(ctx context.Context, sess authz.Session, id uint, input UpdatePostInput) (*PostView, error) {
	if err := authz.EnsureAdmin(sess); err != nil {
		return nil, err
	}
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	fields := map[string]interface{}{}
	oldSlug := post.Slug

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrEmptyTitle
		}
		newSlug := slug.Generate(*input.Title)
		if newSlug == "" {
			return nil, ErrSlugExists
		}
		if newSlug != post.Slug {
			count, err := s.repo.CountBySlug(newSlug, &id)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrSlugExists
			}
		}
		fields["title"] = *input.Title
		fields["slug"] = newSlug
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, ErrEmptyContent
		}
		fields["content"] = *input.Content
	}
	if input.Excerpt != nil {
		fields["excerpt"] = *input.Excerpt
	}
	if input.FeaturedImage != nil {
		fields["featured_image"] = *input.FeaturedImage
	}

	publishStateChanged := false
	if input.Published != nil && *input.Published != post.Published {
		publishStateChanged = true
		fields["published"] = *input.Published
		if *input.Published {
			fields["published_at"] = time.Now()
		}
		// 取消发布不清空 published_at，重新上线时可保留首次发布时间
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(id, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrSlugExists
			}
			return nil, err
		}
	}

	s.invalidatePublicCache(ctx, oldSlug)
	if newSlug, ok := fields["slug"].(string); ok && newSlug != oldSlug {
		s.invalidatePublicCache(ctx, newSlug)
	}

	logger.Infow("post_updated", "post_id", id, "user_id", sess.UserID)
	if publishStateChanged {
		s.notifyPublishState(id)
	}

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	view := NewPostView(updated)
	return &view, nil
}

// Delete 删除文章
func (s *PostService) Delete(ctx context.Context, sess authz.Session, id uint) error {
	if err := authz.EnsureAdmin(sess); err != nil {
		return err
	}
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidatePublicCache(ctx, post.Slug)
	logger.Infow("post_deleted", "post_id", id, "slug", post.Slug, "user_id", sess.UserID)
	return nil
}

// TogglePublish 翻转发布状态
// 上线补记发布时间；下线清空发布时间，使其退回“从未发布”形态。
func (s *PostService) TogglePublish(ctx context.Context, sess authz.Session, id uint) (*PostView, error) {
	if err := authz.EnsureAdmin(sess); err != nil {
		return nil, err
	}
	post, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	fields := map[string]interface{}{
		"published": !post.Published,
	}
	if post.Published {
		fields["published_at"] = nil
	} else {
		fields["published_at"] = time.Now()
	}
	if err := s.repo.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	s.invalidatePublicCache(ctx, post.Slug)
	logger.Infow("post_publish_toggled",
		"post_id", id,
		"published", !post.Published,
		"user_id", sess.UserID,
	)
	s.notifyPublishState(id)

	updated, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	view := NewPostView(updated)
	return &view, nil
}

// RefreshPublicCache 由后台任务调用，按当前发布状态刷新公开缓存
func (s *PostService) RefreshPublicCache(ctx context.Context, id uint) error {
	post, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return nil
	}
	if !cache.Enabled() {
		return nil
	}
	if !post.Published {
		return cache.DelPublicPost(ctx, post.Slug)
	}
	view := NewPostView(post)
	return cache.SetPublicPost(ctx, post.Slug, view)
}

func (s *PostService) notifyPublishState(id uint) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueuePostPublishState(id); err != nil {
		logger.Warnw("post_publish_task_enqueue_failed", "post_id", id, "error", err)
	}
}

func (s *PostService) invalidatePublicCache(ctx context.Context, slugValue string) {
	if !cache.Enabled() {
		return
	}
	if err := cache.DelPublicPost(ctx, slugValue); err != nil {
		logger.Warnw("post_cache_invalidate_failed", "slug", slugValue, "error", err)
	}
}

func buildListResult(posts []models.Post, total int64, page, pageSize int) *PostListResult {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	result := &PostListResult{
		Posts:      NewPostViews(posts),
		TotalCount: total,
	}
	if int64(page)*int64(pageSize) < total {
		result.HasMore = true
		next := page + 1
		result.NextPage = &next
	}
	return result
}
