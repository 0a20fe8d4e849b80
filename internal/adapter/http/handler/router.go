package handler

import (
	"time"

	"account-ledger/internal/adapter/http/middleware"
	redisStore "account-ledger/internal/adapter/storage/redis"
	"account-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AccountSvc     ports.AccountService
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	SessionSvc     ports.SessionService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	LoginRateLimit int64
	LoginRateWin   time.Duration
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	loginRL := func(c *gin.Context) { c.Next() }
	if deps.RateLimitStore != nil {
		loginRL = middleware.LoginRateLimiter(deps.RateLimitStore, deps.LoginRateLimit, deps.LoginRateWin, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no session) ---
	accountHandler := NewAccountHandler(deps.AccountSvc)
	v1.POST("/accounts", accountHandler.Register)

	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", loginRL, authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	// --- Session-authenticated routes ---
	sessionAuth := middleware.SessionAuth(deps.SessionSvc, deps.Logger)
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)

	accounts := v1.Group("/accounts/me", sessionAuth)
	{
		accounts.GET("", ledgerHandler.GetMe)
		accounts.GET("/balance", ledgerHandler.GetBalance)
		accounts.GET("/transactions", ledgerHandler.ListTransactions)
		accounts.PUT("/pin", ledgerHandler.ChangePIN)
		accounts.PATCH("/preferences", ledgerHandler.UpdatePreferences)
	}

	transactions := v1.Group("/transactions", sessionAuth)
	{
		transactions.POST("/deposit", ledgerHandler.Deposit)
		transactions.POST("/withdraw", ledgerHandler.Withdraw)
		transactions.POST("/transfer", ledgerHandler.Transfer)
		transactions.POST("/fast-cash", ledgerHandler.FastCash)
	}

	return r
}
