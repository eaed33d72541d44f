package handler

import (
	"equitrack-backend/internal/adapter/http/middleware"
	redisStore "equitrack-backend/internal/adapter/storage/redis"
	"equitrack-backend/internal/core/domain"
	"equitrack-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WalletSvc      ports.WalletService
	EntrySvc       ports.EntryService
	DashboardSvc   ports.DashboardService
	ReportSvc      ports.ReportService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
		auth.GET("/activate", rl("auth_login"), authHandler.Activate)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	me := v1.Group("/auth", jwtAuth)
	{
		me.GET("/me", rl("dashboard"), authHandler.Me)
	}

	walletHandler := NewWalletHandler(deps.WalletSvc)
	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.POST("", rl("wallets"), walletHandler.Create)
		wallets.GET("", rl("wallets"), walletHandler.List)
		wallets.GET("/total-balance", rl("wallets"), walletHandler.TotalBalance)
		wallets.GET("/:id", rl("wallets"), walletHandler.Get)
		wallets.PATCH("/:id", rl("wallets"), walletHandler.Update)
		wallets.DELETE("/:id", rl("wallets"), walletHandler.Delete)
		wallets.POST("/:id/deposit", rl("wallets_move"), walletHandler.Deposit)
		wallets.POST("/:id/withdraw", rl("wallets_move"), walletHandler.Withdraw)
		wallets.POST("/:id/transfer", rl("wallets_move"), walletHandler.Transfer)
		wallets.POST("/:id/activate", rl("wallets"), walletHandler.Activate)
		wallets.POST("/:id/deactivate", rl("wallets"), walletHandler.Deactivate)
		wallets.GET("/:id/activities", rl("wallets"), walletHandler.Activities)
	}

	incomeHandler := NewEntryHandler(deps.EntrySvc, domain.EntryKindIncome)
	expenseHandler := NewEntryHandler(deps.EntrySvc, domain.EntryKindExpense)
	incomeReport := NewReportHandler(deps.ReportSvc, domain.EntryKindIncome)
	expenseReport := NewReportHandler(deps.ReportSvc, domain.EntryKindExpense)

	incomes := v1.Group("/incomes", jwtAuth)
	{
		incomes.POST("", rl("entries"), incomeHandler.Create)
		incomes.GET("", rl("entries"), incomeHandler.List)
		incomes.DELETE("/:id", rl("entries"), incomeHandler.Delete)
		incomes.GET("/download", rl("report"), incomeReport.Download)
		incomes.GET("/email", rl("report"), incomeReport.Email)
	}

	expenses := v1.Group("/expenses", jwtAuth)
	{
		expenses.POST("", rl("entries"), expenseHandler.Create)
		expenses.GET("", rl("entries"), expenseHandler.List)
		expenses.DELETE("/:id", rl("entries"), expenseHandler.Delete)
		expenses.GET("/download", rl("report"), expenseReport.Download)
		expenses.GET("/email", rl("report"), expenseReport.Email)
	}

	filterHandler := NewFilterHandler(deps.EntrySvc)
	filter := v1.Group("/filter", jwtAuth)
	{
		filter.POST("", rl("entries"), filterHandler.Filter)
	}

	dashboardHandler := NewDashboardHandler(deps.DashboardSvc)
	dashboard := v1.Group("/dashboard", jwtAuth)
	{
		dashboard.GET("", rl("dashboard"), dashboardHandler.Get)
	}

	return r
}
