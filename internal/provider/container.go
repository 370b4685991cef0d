package provider

import (
	"github.com/tidecart/internal/authz"
	"github.com/tidecart/internal/cache"
	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/models"
	"github.com/tidecart/internal/queue"
	"github.com/tidecart/internal/repository"
	"github.com/tidecart/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Locker      cache.Locker

	// Repositories
	AdminRepo           repository.AdminRepository
	UserRepo            repository.UserRepository
	CategoryRepo        repository.CategoryRepository
	ProductRepo         repository.ProductRepository
	PostRepo            repository.PostRepository
	TrustedBadgeRepo    repository.TrustedBadgeRepository
	FeaturedFishRepo    repository.FeaturedFishRepository
	DeliverySlotRepo    repository.DeliverySlotRepository
	CartRepo            repository.CartRepository
	PreferenceRepo      repository.PreferenceRepository
	CheckoutSessionRepo repository.CheckoutSessionRepository
	OrderRepo           repository.OrderRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	PostService         *service.PostService
	ShowcaseService     *service.ShowcaseService
	DeliverySlotService *service.DeliverySlotService
	CartService         *service.CartService
	PreferenceService   *service.PreferenceService
	OrderService        *service.OrderService
	CheckoutService     *service.CheckoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存，失败时锁与目录缓存降级为进程内实现
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

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
		Locker:      cache.NewLocker(),
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
	c.PostRepo = repository.NewPostRepository(db)
	c.TrustedBadgeRepo = repository.NewTrustedBadgeRepository(db)
	c.FeaturedFishRepo = repository.NewFeaturedFishRepository(db)
	c.DeliverySlotRepo = repository.NewDeliverySlotRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.PreferenceRepo = repository.NewPreferenceRepository(db)
	c.CheckoutSessionRepo = repository.NewCheckoutSessionRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
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

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo)
	c.PostService = service.NewPostService(c.PostRepo)
	c.ShowcaseService = service.NewShowcaseService(c.TrustedBadgeRepo, c.FeaturedFishRepo, c.ProductRepo)
	c.DeliverySlotService = service.NewDeliverySlotService(c.DeliverySlotRepo)
	c.CartService = service.NewCartService(c.Config.Cart, c.CartRepo, c.ProductRepo)
	c.PreferenceService = service.NewPreferenceService(c.PreferenceRepo, c.UserRepo)
	c.OrderService = service.NewOrderService(models.DB, c.OrderRepo, c.CartRepo, c.DeliverySlotRepo, c.QueueClient)
	c.CheckoutService = service.NewCheckoutService(
		c.Config.Checkout,
		c.CheckoutSessionRepo,
		c.CartService,
		c.PreferenceService,
		c.DeliverySlotService,
		c.OrderService,
		c.Locker,
	)
}
