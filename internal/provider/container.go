package provider

import (
	"github.com/mowen-next/internal/cache"
	"github.com/mowen-next/internal/config"
	"github.com/mowen-next/internal/logger"
	"github.com/mowen-next/internal/models"
	"github.com/mowen-next/internal/queue"
	"github.com/mowen-next/internal/repository"
	"github.com/mowen-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo      repository.UserRepository
	PostRepo      repository.PostRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthService      *service.AuthService
	PostService      *service.PostService
	DashboardService *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.PostService = service.NewPostService(c.PostRepo, c.QueueClient)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
