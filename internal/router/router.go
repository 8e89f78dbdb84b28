package router

import (
	"fmt"
	"strings"

	"github.com/mowen-next/internal/cache"
	"github.com/mowen-next/internal/config"
	adminhandlers "github.com/mowen-next/internal/http/handlers/admin"
	publichandlers "github.com/mowen-next/internal/http/handlers/public"
	"github.com/mowen-next/internal/logger"
	"github.com/mowen-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mw"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(SessionMiddleware(c.AuthService, c.UserRepo))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/hello", publicHandler.Hello)
			public.GET("/posts", publicHandler.ListPosts)
			public.GET("/posts/:slug", publicHandler.GetPostBySlug)
		}

		// 认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
			auth.POST("/federated", RateLimitMiddleware(redisClient, loginRule, KeyByIP), publicHandler.FederatedCallback)
		}

		// 需要会话的接口
		apiV1.GET("/me", RequireAuthMiddleware(), publicHandler.Me)

		// 管理端接口
		// 角色门禁在业务层执行，这里只要求携带有效会话。
		admin := apiV1.Group("/admin")
		admin.Use(RequireAuthMiddleware())
		{
			admin.GET("/posts", adminHandler.ListPosts)
			admin.GET("/posts/:id", adminHandler.GetPost)
			admin.POST("/posts", adminHandler.CreatePost)
			admin.PUT("/posts/:id", adminHandler.UpdatePost)
			admin.DELETE("/posts/:id", adminHandler.DeletePost)
			admin.POST("/posts/:id/toggle-publish", adminHandler.TogglePostPublish)

			admin.GET("/stats", adminHandler.GetStats)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
