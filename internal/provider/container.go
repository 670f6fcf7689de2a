package provider

import (
	"context"
	"time"

	"github.com/ram-us/internal/authz"
	"github.com/ram-us/internal/cache"
	"github.com/ram-us/internal/chat"
	"github.com/ram-us/internal/config"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/metrics"
	"github.com/ram-us/internal/models"
	"github.com/ram-us/internal/payment/yookassa"
	"github.com/ram-us/internal/queue"
	"github.com/ram-us/internal/repository"
	"github.com/ram-us/internal/service"
	"github.com/ram-us/internal/shipping/cdek"
	"github.com/ram-us/internal/storefront"
	"github.com/ram-us/internal/telegram"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const defaultStateTTL = 30 * 24 * time.Hour

// Container 依赖注入容器
type Container struct {
	Config          *config.Config
	QueueClient     *queue.Client
	Metrics         *metrics.Metrics
	MetricsRegistry *prometheus.Registry
	Bot             *telegram.Bot

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	CategoryRepo      repository.CategoryRepository
	ProductRepo       repository.ProductRepository
	FavoriteRepo      repository.FavoriteRepository
	OrderRepo         repository.OrderRepository
	PaymentRepo       repository.PaymentRepository
	SellerRepo        repository.SellerRepository
	ListingRepo       repository.ListingRepository
	ShowcaseRepo      repository.ShowcaseRepository
	PreorderRepo      repository.PreorderRepository
	StateBlobRepo     repository.StateBlobRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	CartService         *service.CartService
	GarageService       *service.GarageService
	FavoriteService     *service.FavoriteService
	ShippingService     *service.ShippingService
	NotificationService *service.NotificationService
	OrderService        *service.OrderService
	SellerService       *service.SellerService
	PaymentService      *service.PaymentService
	ListingService      *service.ListingService
	ShowcaseService     *service.ShowcaseService
	PreorderService     *service.PreorderService
	ChatService         *service.ChatService
	AdminAuditService   *service.AdminAuditService
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
	c.initMetrics()

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initMetrics() {
	if !c.Config.Metrics.Enabled {
		c.Metrics = metrics.New(nil)
		return
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.MetricsRegistry = reg
	c.Metrics = metrics.New(reg)
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.FavoriteRepo = repository.NewFavoriteRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.SellerRepo = repository.NewSellerRepository(db)
	c.ListingRepo = repository.NewListingRepository(db)
	c.ShowcaseRepo = repository.NewShowcaseRepository(db)
	c.PreorderRepo = repository.NewPreorderRepository(db)
	c.StateBlobRepo = repository.NewStateBlobRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
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

	cfg := c.Config
	c.Bot = telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.BotAPIBaseURL, 0)

	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryService)

	stateStorage := c.stateStorage()
	c.CartService = service.NewCartService(stateStorage, c.ProductRepo, cfg.Order.MaxItems)
	c.GarageService = service.NewGarageService(stateStorage)
	c.FavoriteService = service.NewFavoriteService(c.FavoriteRepo, c.ProductRepo)

	c.ShippingService = service.NewShippingService(c.shippingProvider(), time.Duration(cfg.Shipping.CacheTTLSeconds)*time.Second, c.Metrics)

	var messenger service.Messenger
	if cfg.Telegram.NotifyEnabled && c.Bot.Enabled() {
		messenger = c.Bot
	}
	c.NotificationService = service.NewNotificationService(messenger, c.OrderRepo, c.UserRepo, c.QueueClient, cfg.Telegram.AdminChatID)

	c.OrderService = service.NewOrderService(service.OrderServiceOptions{
		OrderRepo:     c.OrderRepo,
		ProductRepo:   c.ProductRepo,
		Shipping:      c.ShippingService,
		CartService:   c.CartService,
		Notifier:      c.NotificationService,
		QueueClient:   c.QueueClient,
		Metrics:       c.Metrics,
		ExpireMinutes: cfg.Order.PaymentExpireMinutes,
		MaxItems:      cfg.Order.MaxItems,
		PickupAddress: cfg.Order.PickupAddress,
	})

	fee, err := models.NewMoneyFromString(cfg.Seller.SubscriptionPriceRub)
	if err != nil {
		logger.Warnw("provider_parse_seller_fee_failed", "value", cfg.Seller.SubscriptionPriceRub, "error", err)
	}
	c.SellerService = service.NewSellerService(c.SellerRepo, c.NotificationService, c.QueueClient, fee, cfg.Seller.SubscriptionDays)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.OrderService, c.SellerService, c.paymentGateway(), c.Metrics)
	c.ListingService = service.NewListingService(c.ListingRepo, c.SellerRepo)
	c.ShowcaseService = service.NewShowcaseService(c.ShowcaseRepo, c.ProductRepo)
	c.PreorderService = service.NewPreorderService(c.PreorderRepo)
	c.ChatService = service.NewChatService(c.consultant(), c.GarageService, c.Metrics)
	c.AdminAuditService = service.NewAdminAuditService(c.AuthzAuditLogRepo)
}

// stateStorage Redis 可用时购物车与车库存 Redis，否则落库
func (c *Container) stateStorage() storefront.Storage {
	if cache.Enabled() {
		return storefront.NewCacheStorage(defaultStateTTL)
	}
	return storefront.NewBlobStorage(c.StateBlobRepo)
}

func (c *Container) shippingProvider() service.ShippingProvider {
	cfg := c.Config.Shipping
	if cfg.ClientID == "" {
		logger.Warnw("provider_shipping_disabled", "reason", "client_id is empty")
		return nil
	}
	client, err := cdek.NewClient(cdek.Config{
		BaseURL:      cfg.BaseURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		FromCityCode: cfg.FromCityCode,
		Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Errorw("provider_init_cdek_failed", "error", err)
		return nil
	}
	return client
}

func (c *Container) paymentGateway() service.PaymentGateway {
	cfg := c.Config.Payment
	if cfg.ShopID == "" {
		logger.Warnw("provider_payment_disabled", "reason", "shop_id is empty")
		return nil
	}
	client, err := yookassa.NewClient(yookassa.Config{
		BaseURL:   cfg.BaseURL,
		ShopID:    cfg.ShopID,
		SecretKey: cfg.SecretKey,
		ReturnURL: cfg.ReturnURL,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Errorw("provider_init_yookassa_failed", "error", err)
		return nil
	}
	return client
}

func (c *Container) consultant() *chat.Consultant {
	cfg := c.Config.Chat
	if cfg.APIKey == "" {
		return chat.NewConsultant(nil)
	}
	gen, err := chat.NewGeminiGenerator(context.Background(), cfg.APIKey, cfg.Model, cfg.MaxOutputTokens)
	if err != nil {
		logger.Errorw("provider_init_gemini_failed", "error", err)
		return chat.NewConsultant(nil)
	}
	return chat.NewConsultant(gen)
}
