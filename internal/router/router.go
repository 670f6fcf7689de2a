package router

import (
	"sort"
	"strings"

	"github.com/ram-us/internal/authz"
	"github.com/ram-us/internal/cache"
	"github.com/ram-us/internal/config"
	adminhandlers "github.com/ram-us/internal/http/handlers/admin"
	publichandlers "github.com/ram-us/internal/http/handlers/public"
	"github.com/ram-us/internal/http/handlers/shared"
	"github.com/ram-us/internal/http/response"
	"github.com/ram-us/internal/landing"
	"github.com/ram-us/internal/logger"
	"github.com/ram-us/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	shared.RegisterValidators()
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := cache.Prefix()
	redisClient := cache.Client()
	telegramLoginRule := newThrottle(redisPrefix, "telegram_login", cfg.Security.LoginRateLimit, "error.login_too_many")
	adminLoginRule := newThrottle(redisPrefix, "admin_login", cfg.Security.LoginRateLimit, "error.login_too_many")
	chatRule := newThrottle(redisPrefix, "chat", cfg.Security.ChatRateLimit, "error.rate_limited")

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(MetricsMiddleware(c.Metrics))

	// 落地页
	r.GET("/", landing.Handler())

	if cfg.Metrics.Enabled && c.MetricsRegistry != nil {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(c.MetricsRegistry, promhttp.HandlerOpts{})))
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/brands", publicHandler.GetBrands)
			public.GET("/showcase", publicHandler.GetShowcase)
			public.GET("/listings", publicHandler.GetListings)
			public.GET("/listings/:id", publicHandler.GetListing)
		}

		// 买家认证
		apiV1.POST("/auth/telegram", RateLimitMiddleware(redisClient, telegramLoginRule, KeyByIP), publicHandler.TelegramLogin)

		// 物流查询
		shipping := apiV1.Group("/shipping")
		{
			shipping.GET("/cities", publicHandler.SearchCities)
			shipping.POST("/tariffs", publicHandler.CalculateTariffs)
			shipping.GET("/pvz", publicHandler.ListPickupPoints)
		}

		apiV1.POST("/payments/yookassa/webhook", publicHandler.YooKassaWebhook)

		// 买家接口（需鉴权）
		me := apiV1.Group("/me")
		me.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserAuthService))
		{
			me.GET("", publicHandler.GetMe)

			me.GET("/cart", publicHandler.GetCart)
			me.POST("/cart/items", publicHandler.AddCartItem)
			me.PUT("/cart/items/:id", publicHandler.UpdateCartItem)
			me.DELETE("/cart/items/:id", publicHandler.RemoveCartItem)
			me.DELETE("/cart", publicHandler.ClearCart)

			me.GET("/garage", publicHandler.GetGarage)
			me.PUT("/garage", publicHandler.SetGarage)
			me.DELETE("/garage", publicHandler.ClearGarage)

			me.GET("/favorites", publicHandler.GetFavorites)
			me.POST("/favorites/:product_id/toggle", publicHandler.ToggleFavorite)

			me.POST("/orders", publicHandler.CreateOrder)
			me.GET("/orders", publicHandler.ListOrders)
			me.GET("/orders/:order_no", publicHandler.GetOrder)
			me.POST("/orders/:order_no/cancel", publicHandler.CancelOrder)
			me.POST("/orders/:order_no/pay", publicHandler.PayOrder)

			me.POST("/seller", publicHandler.ApplySeller)
			me.GET("/seller", publicHandler.GetMySeller)
			me.POST("/seller/subscription/pay", publicHandler.PaySellerSubscription)
			me.POST("/listings", publicHandler.CreateListing)
			me.GET("/listings", publicHandler.ListMyListings)
			me.PUT("/listings/:id", publicHandler.UpdateListing)
			me.DELETE("/listings/:id", publicHandler.DeleteListing)

			me.POST("/preorders", publicHandler.CreatePreorder)
			me.GET("/preorders", publicHandler.ListMyPreorders)

			me.POST("/chat", RateLimitMiddleware(redisClient, chatRule, KeyByUserOrIP), publicHandler.AskChat)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				// 管理员账号
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.GET("/admins", adminHandler.ListAdmins)
				authorized.POST("/admins", adminHandler.CreateAdmin)
				authorized.DELETE("/admins/:id", adminHandler.DeleteAdmin)

				// 分类管理
				authorized.GET("/categories", adminHandler.GetAdminCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				// 商品管理
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				// 首页橱窗
				authorized.GET("/showcase", adminHandler.GetAdminShowcase)
				authorized.PUT("/showcase", adminHandler.ReplaceShowcase)

				// 订单与支付
				authorized.GET("/orders", adminHandler.GetAdminOrders)
				authorized.GET("/orders/:order_no", adminHandler.GetAdminOrder)
				authorized.PATCH("/orders/:order_no/status", adminHandler.UpdateAdminOrderStatus)
				authorized.GET("/payments", adminHandler.GetAdminPayments)

				// 二手市场
				authorized.GET("/sellers", adminHandler.GetAdminSellers)
				authorized.GET("/sellers/:id", adminHandler.GetAdminSeller)
				authorized.PATCH("/sellers/:id/status", adminHandler.UpdateSellerStatus)
				authorized.GET("/listings", adminHandler.GetAdminListings)
				authorized.PATCH("/listings/:id/status", adminHandler.UpdateListingStatus)
				authorized.DELETE("/listings/:id", adminHandler.DeleteListing)

				// 预订单
				authorized.GET("/preorders", adminHandler.GetAdminPreorders)
				authorized.PATCH("/preorders/:id", adminHandler.UpdatePreorderStatus)

				// 买家管理
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.PATCH("/users/:id/status", adminHandler.UpdateUserStatus)

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
				authorized.GET("/authz/audit-logs", adminHandler.ListAuditLogs)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
