// internal/router/router.go
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/handlers"
	"github.com/otakughor/backend/internal/ledger"
	"github.com/otakughor/backend/internal/middleware"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/services"
	"github.com/otakughor/backend/internal/store"
	"github.com/otakughor/backend/internal/utils"
)

// Initialize wires repositories, services and handlers over st and returns
// the HTTP engine. outbox may be nil when the ledger mirror is disabled.
// Rate limiter cleanup runs until done is closed.
func Initialize(st store.Store, cfg *config.Config, outbox *ledger.Outbox, done <-chan struct{}) (*gin.Engine, error) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(st)
	adminRepo := repository.NewAdminRepository(st)
	productRepo := repository.NewProductRepository(st)
	orderRepo := repository.NewOrderRepository(st)
	notificationRepo := repository.NewNotificationRepository(st)
	auditLogRepo := repository.NewAuditLogRepository(st)

	// Initialize services
	mailService, err := services.NewMailService(cfg.Mail)
	if err != nil {
		return nil, fmt.Errorf("mail service: %w", err)
	}
	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage service: %w", err)
	}
	tokens := utils.NewTokenManager(cfg.JWT)

	notificationService := services.NewNotificationService(notificationRepo, cfg)
	authService := services.NewAuthService(userRepo, adminRepo, tokens, mailService)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo, notificationService)
	orderService := services.NewOrderService(orderRepo, notificationService, outbox, mailService, cfg)
	adminService := services.NewAdminService(adminRepo, productService, orderService, userService, notificationService, auditLogRepo, outbox)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.Store.Driver, outbox)
	authHandler := handlers.NewAuthHandler(authService, userService, adminService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService, storageService)
	orderHandler := handlers.NewOrderHandler(orderService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	auth := middleware.NewAuth(authService)
	limits := middleware.NewRateLimits(cfg.RateLimit)
	limits.Start(done)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(cfg.IsProduction()))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(limits.General())
	r.Use(middleware.AuditLogMiddleware(auditLogRepo))

	// Health check
	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		// Admin routes
		admin := api.Group("/admin")
		{
			admin.POST("/login", limits.Auth(), authHandler.AdminLogin)
			admin.POST("/refresh", limits.Auth(), authHandler.AdminRefresh)

			protected := admin.Group("")
			protected.Use(auth.AdminAuth())
			{
				protected.GET("/verify", authHandler.AdminVerify)
				protected.GET("/profile", authHandler.AdminProfile)
				protected.GET("/dashboard", adminHandler.GetDashboard)
				protected.GET("/audit-logs", middleware.RequireRole(models.AdminRoleSuperAdmin), adminHandler.GetAuditLogs)

				// Ledger mirror
				protected.GET("/ledger", adminHandler.GetLedgerEntries)
				protected.POST("/ledger/:id/retry", adminHandler.RetryLedgerEntry)

				// User management
				protected.GET("/users", userHandler.GetUsers)
				protected.PUT("/users/:id/status", userHandler.UpdateUserStatus)
				protected.DELETE("/users/:id",
					middleware.RequireRole(models.AdminRoleAdmin, models.AdminRoleSuperAdmin),
					userHandler.DeleteUser)
			}
		}

		// Customer authentication routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", limits.Auth(), authHandler.Register)
			authGroup.POST("/login", limits.Auth(), authHandler.Login)
			authGroup.POST("/refresh", limits.Auth(), authHandler.Refresh)

			protected := authGroup.Group("")
			protected.Use(auth.UserAuth())
			{
				protected.GET("/verify", authHandler.Verify)
				protected.GET("/profile", authHandler.Profile)
				protected.PUT("/profile", authHandler.UpdateProfile)
				protected.PUT("/change-password", authHandler.ChangePassword)
			}
		}

		// Product routes
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/categories", productHandler.GetCategories)
			products.GET("/:id", productHandler.GetProduct)

			protected := products.Group("")
			protected.Use(auth.AdminAuth())
			{
				protected.GET("/admin/stats", productHandler.GetStats)
				protected.POST("", productHandler.CreateProduct)
				protected.POST("/upload-image", productHandler.UploadImage)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.PATCH("/:id/stock", productHandler.UpdateStock)
				protected.DELETE("/:id", productHandler.DeleteProduct)
			}
		}

		// Order routes
		orders := api.Group("/orders")
		{
			orders.POST("", auth.OptionalUserAuth(), orderHandler.CreateOrder)
			orders.GET("/track/:trackingNumber", orderHandler.TrackOrder)
			orders.GET("/my", auth.UserAuth(), orderHandler.MyOrders)

			protected := orders.Group("")
			protected.Use(auth.AdminAuth())
			{
				protected.GET("/admin", orderHandler.GetOrders)
				protected.GET("/admin/stats", orderHandler.GetStats)
				protected.GET("/:id", orderHandler.GetOrder)
				protected.PUT("/:id/status", orderHandler.UpdateStatus)
				protected.DELETE("/:id", orderHandler.DeleteOrder)
			}
		}

		// Notification routes
		notifications := api.Group("/notifications")
		notifications.Use(auth.AnyAuth())
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.POST("", auth.AdminAuth(), notificationHandler.CreateNotification)
			notifications.DELETE("/:id", auth.AdminAuth(), notificationHandler.DeleteNotification)
		}
	}

	// Locally stored product images
	if cfg.Storage.Provider == "local" {
		r.Static("/uploads", cfg.Storage.UploadDir)
	}

	return r, nil
}
