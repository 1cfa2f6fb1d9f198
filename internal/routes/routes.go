package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/visaflow/backend/internal/handlers"
	"github.com/visaflow/backend/internal/middleware"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Application  *handlers.ApplicationHandler
	Payment      *handlers.PaymentHandler
	Notification *handlers.NotificationHandler
	AdminUser    *handlers.AdminUserHandler
	Catalog      *handlers.CatalogHandler
	Settings     *handlers.SettingsHandler
}

// RegisterRoutes configures all API routes
func RegisterRoutes(router *gin.Engine, h Handlers) {
	// 30 req/s per IP across the API, 10 auth attempts per minute
	rateLimiter := middleware.NewRateLimiter(30, 10, 60, 5)
	router.Use(rateLimiter.RateLimiterMiddleware())

	authGroup := router.Group("/api/auth")
	authGroup.Use(rateLimiter.AuthRateLimiterMiddleware())
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.RefreshToken)
		authGroup.POST("/google", h.Auth.GoogleAuth)
	}

	// Public catalog for the application form
	router.GET("/api/countries", h.Catalog.ListCountries)
	router.GET("/api/visa-types", h.Catalog.ListVisaTypes)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/profile", h.Profile.GetProfile)
		api.PUT("/profile", h.Profile.UpdateProfile)

		api.POST("/applications", h.Application.Create)
		api.GET("/applications", h.Application.List)
		api.GET("/applications/:id", h.Application.Get)
		api.POST("/applications/:id/submit", h.Application.Submit)
		api.POST("/applications/:id/create-payment", h.Payment.CreatePayment)
		api.POST("/applications/:id/verify-payment", h.Payment.VerifyPayment)

		api.GET("/notifications", h.Notification.List)
		api.POST("/notifications/:id/read", h.Notification.MarkRead)
	}

	// Review console: employees and admins
	staff := router.Group("/api")
	staff.Use(middleware.AuthMiddleware(), middleware.StaffMiddleware())
	{
		staff.POST("/applications/:id/status", h.Application.UpdateStatus)
	}

	// Admin console
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/applications/:id/assign", h.Application.Assign)

		admin.GET("/employees", h.AdminUser.ListEmployees)
		admin.POST("/employees", h.AdminUser.CreateEmployee)
		admin.GET("/customers", h.AdminUser.ListCustomers)
		admin.PUT("/users/:id/status", h.AdminUser.SetUserStatus)

		admin.POST("/countries", h.Catalog.CreateCountry)
		admin.PUT("/countries/:id", h.Catalog.UpdateCountry)
		admin.POST("/visa-types", h.Catalog.CreateVisaType)
		admin.PUT("/visa-types/:id", h.Catalog.UpdateVisaType)

		admin.GET("/settings", h.Settings.List)
		admin.POST("/settings", h.Settings.Set)
	}
}
