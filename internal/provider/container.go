package provider

import (
	"github.com/sabor-next/internal/authz"
	"github.com/sabor-next/internal/cache"
	"github.com/sabor-next/internal/config"
	"github.com/sabor-next/internal/logger"
	"github.com/sabor-next/internal/models"
	"github.com/sabor-next/internal/queue"
	"github.com/sabor-next/internal/repository"
	"github.com/sabor-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	CategoryRepo  repository.CategoryRepository
	ProductRepo   repository.ProductRepository
	VariantRepo   repository.ProductVariantRepository
	PromotionRepo repository.PromotionRepository
	OrderRepo     repository.OrderRepository
	TicketRepo    repository.TicketRepository

	// Services
	AuthzService          *authz.Service
	AuthService           *service.AuthService
	UserAuthService       *service.UserAuthService
	CaptchaService        *service.CaptchaService
	CategoryService       *service.CategoryService
	ProductService        *service.ProductService
	PromotionService      *service.PromotionService
	PromotionAdminService *service.PromotionAdminService
	OrderService          *service.OrderService
	TicketService         *service.TicketService
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

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.TicketRepo = repository.NewTicketRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	var orderNotifier service.OrderNotifier
	var ticketNotifier service.TicketNotifier
	if c.QueueClient != nil {
		orderNotifier = c.QueueClient
		ticketNotifier = c.QueueClient
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo, c.CategoryRepo)
	c.PromotionService = service.NewPromotionService(c.PromotionRepo, c.ProductRepo)
	c.PromotionAdminService = service.NewPromotionAdminService(c.PromotionRepo, c.ProductRepo, cache.InvalidatePromotionCatalog)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.VariantRepo, c.PromotionService, orderNotifier, c.Config.Site.Currency)
	c.TicketService = service.NewTicketService(c.TicketRepo, ticketNotifier)
}
