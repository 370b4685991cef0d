package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidecart/internal/authz"
	"github.com/tidecart/internal/cache"
	"github.com/tidecart/internal/config"
	adminhandlers "github.com/tidecart/internal/http/handlers/admin"
	publichandlers "github.com/tidecart/internal/http/handlers/public"
	"github.com/tidecart/internal/http/response"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/provider"

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
		redisPrefix = "tc"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_blocked",
	}
	adminLoginRule := loginRule
	adminLoginRule.Prefix = fmt.Sprintf("%s:rate:admin_login", redisPrefix)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开目录
		apiV1.GET("/categories", publicHandler.GetCategories)
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:slug", publicHandler.GetProduct)
		apiV1.GET("/posts", publicHandler.GetPosts)
		apiV1.GET("/posts/:slug", publicHandler.GetPost)
		apiV1.GET("/trusted-badges", publicHandler.GetTrustedBadges)
		apiV1.GET("/featured-fish", publicHandler.GetFeaturedFish)
		apiV1.GET("/delivery-slots", publicHandler.GetDeliverySlots)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.POST("/register", publicHandler.UserRegister)
		}

		// 用户登录后接口
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/users/profile", publicHandler.GetProfile)
			user.PUT("/users/profile", publicHandler.UpdateProfile)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart", publicHandler.AddCartItem)
			user.PATCH("/cart", publicHandler.UpdateCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.DELETE("/cart/:product_id", publicHandler.DeleteCartItem)

			checkout := user.Group("/checkout")
			{
				checkout.GET("", publicHandler.GetCheckout)
				checkout.POST("/address", publicHandler.SubmitCheckoutAddress)
				checkout.POST("/slot", publicHandler.SelectCheckoutSlot)
				checkout.POST("/continue", publicHandler.ContinueCheckout)
				checkout.POST("/back", publicHandler.BackCheckout)
				checkout.POST("/payment", IdempotencyKeyMiddleware(), publicHandler.SubmitCheckoutPayment)
				checkout.POST("/reset", publicHandler.ResetCheckout)
			}

			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:order_no", publicHandler.GetOrder)
			user.POST("/orders", IdempotencyKeyMiddleware(), publicHandler.CreateOrder)
		}

		adminGroup := apiV1.Group("/admin")
		{
			adminGroup.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			authed := adminGroup.Group("")
			authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			authed.GET("/me", adminHandler.GetMe)

			authorized := authed.Group("")
			authorized.Use(AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r.Routes()))
				})

				authorized.GET("/categories", adminHandler.GetCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				authorized.GET("/products", adminHandler.GetProducts)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				authorized.GET("/blog-posts", adminHandler.GetPosts)
				authorized.POST("/blog-posts", adminHandler.CreatePost)
				authorized.PUT("/blog-posts/:id", adminHandler.UpdatePost)
				authorized.DELETE("/blog-posts/:id", adminHandler.DeletePost)

				authorized.GET("/trusted-badges", adminHandler.GetTrustedBadges)
				authorized.POST("/trusted-badges", adminHandler.CreateTrustedBadge)
				authorized.PUT("/trusted-badges/:id", adminHandler.UpdateTrustedBadge)
				authorized.DELETE("/trusted-badges/:id", adminHandler.DeleteTrustedBadge)

				authorized.GET("/featured-fish", adminHandler.GetFeaturedFish)
				authorized.POST("/featured-fish", adminHandler.CreateFeaturedFish)
				authorized.PUT("/featured-fish/:id", adminHandler.UpdateFeaturedFish)
				authorized.DELETE("/featured-fish/:id", adminHandler.DeleteFeaturedFish)

				authorized.GET("/delivery-slots", adminHandler.GetDeliverySlots)
				authorized.POST("/delivery-slots", adminHandler.CreateDeliverySlot)
				authorized.PUT("/delivery-slots/:id", adminHandler.UpdateDeliverySlot)
				authorized.DELETE("/delivery-slots/:id", adminHandler.DeleteDeliverySlot)

				authorized.GET("/orders", adminHandler.GetOrders)
			}
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, response.CodeNotFound, "not found")
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildAdminPermissionCatalog 从已注册路由生成可授权的权限清单
func buildAdminPermissionCatalog(routes gin.RoutesInfo) []adminPermissionCatalogItem {
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
		if item.Path == "/api/v1/admin/login" || item.Path == "/api/v1/admin/me" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     permissionModule(object),
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

func permissionModule(object string) string {
	segments := strings.Split(strings.Trim(strings.TrimSpace(object), "/"), "/")
	if len(segments) >= 2 && segments[0] == "admin" {
		return segments[1]
	}
	if segments[0] == "" {
		return "system"
	}
	return segments[0]
}
