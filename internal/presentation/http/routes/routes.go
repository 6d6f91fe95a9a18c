package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billpoint/billpoint-api/internal/config"
	domainRepo "github.com/billpoint/billpoint-api/internal/domain/repository"
	"github.com/billpoint/billpoint-api/internal/presentation/http/handler"
	"github.com/billpoint/billpoint-api/internal/presentation/http/middleware"
	"github.com/billpoint/billpoint-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Account  *handler.AccountHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Bill     *handler.BillHandler
	Settings *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewMerchantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/otp/send", h.Auth.SendOTP)
		auth.POST("/otp/verify", h.Auth.VerifyOTP)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		auth.POST("/google", h.Auth.GoogleLogin)
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile and credentials
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.POST("/auth/set-password", h.Auth.SetPassword)
	protected.POST("/auth/force-reset-password", h.Auth.ForceResetPassword)

	// Account deletion
	protected.POST("/auth/delete-account/confirm", h.Account.ConfirmDeletion)
	protected.DELETE("/auth/delete-account", h.Account.Delete)

	// Products
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	// Cart
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddProduct)
		cart.PATCH("/items/:product_id", h.Cart.ChangeQuantity)
		cart.DELETE("/items/:product_id", h.Cart.RemoveLine)
		cart.DELETE("", h.Cart.Reset)
		cart.GET("/qr", h.Cart.QR)
		cart.POST("/checkout",
			middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
			h.Bill.Checkout)
	}

	// Bills
	bills := protected.Group("/bills")
	{
		bills.POST("",
			middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
			h.Bill.Create)
		bills.GET("", h.Bill.List)
		bills.GET("/export", h.Bill.Export)
		bills.GET("/:id", h.Bill.Get)
	}

	// Settings
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", h.Settings.Update)
}
