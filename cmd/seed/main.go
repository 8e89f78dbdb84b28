package main

import (
	"strings"
	"time"

	"github.com/mowen-next/internal/config"
	"github.com/mowen-next/internal/logger"
	"github.com/mowen-next/internal/models"
	"github.com/mowen-next/internal/slug"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 确保管理员账号存在，示例文章挂在该账号名下
	if err := models.EnsureAdminUser(cfg.Admin.Email, cfg.Admin.Name); err != nil {
		stdLog.Fatalf("Failed to ensure admin user: %v", err)
	}
	var admin models.User
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	if err := models.DB.Where("email = ?", adminEmail).First(&admin).Error; err != nil {
		stdLog.Fatalf("Failed to load admin user: %v", err)
	}

	now := time.Now()
	posts := []models.Post{
		{
			Title:     "Hello, World!",
			Content:   "This is the first post on this blog. Edit or delete it from the admin panel, then start writing.",
			Excerpt:   "Welcome to your new blog.",
			Published: true,
		},
		{
			Title:     "Writing with Markdown",
			Content:   "Posts are stored as plain text, so you can write in Markdown and render it however the frontend likes.",
			Excerpt:   "A quick note on how post content is stored.",
			Published: true,
		},
		{
			Title:   "Draft: Ideas for Later",
			Content: "This one is a draft. It never shows up on the public site until you publish it.",
			Excerpt: "An unpublished example post.",
		},
	}

	for i := range posts {
		post := &posts[i]
		post.Slug = slug.Generate(post.Title)
		post.CreatedByID = admin.ID
		if post.Published {
			publishedAt := now.Add(-time.Duration(i) * time.Hour)
			post.PublishedAt = &publishedAt
		}

		var existing models.Post
		if err := models.DB.Where("slug = ?", post.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(post).Error; err != nil {
				stdLog.Printf("Failed to create post %s: %v", post.Slug, err)
			} else {
				stdLog.Printf("Created post: %s", post.Slug)
			}
		} else {
			stdLog.Printf("Post already exists: %s", post.Slug)
		}
	}

	stdLog.Printf("Seed finished")
}
