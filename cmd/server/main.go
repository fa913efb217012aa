package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintrack-api/internal/config"
	"fintrack-api/internal/database"
	"fintrack-api/internal/handlers"
	custommw "fintrack-api/internal/middleware"
	"fintrack-api/internal/repositories"
	"fintrack-api/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	e := buildServer(cfg, db, logger)

	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("starting server", "addr", addr, "environment", cfg.Server.Environment)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

func buildServer(cfg *config.Config, db *database.DB, logger *slog.Logger) *echo.Echo {
	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	accountRepo := repositories.NewAccountRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	currencyRateRepo := repositories.NewCurrencyRateRepository(db.DB)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db.DB)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db.DB)

	// Services
	metrics := services.NewPrometheusMetrics()
	passwordService := services.NewPasswordService(cfg.Security.BCryptCost, cfg.Security.PasswordMinLength)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, blacklistedTokenRepo, passwordService, tokenService, metrics, logger)
	userService := services.NewUserService(userRepo, passwordService, logger)
	accountService := services.NewAccountService(accountRepo, logger)
	transactionService := services.NewTransactionService(transactionRepo, accountRepo, metrics, logger)
	rateFetcher := services.NewExchangeRateClient(&cfg.Exchange)
	currencyService := services.NewCurrencyService(currencyRateRepo, rateFetcher, cfg.Exchange.BaseCurrency, metrics, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	userHandler := handlers.NewUserHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	healthHandler := handlers.NewHealthCheckHandler(db.DB)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = custommw.CustomHTTPErrorHandler

	e.Use(custommw.RequestID())
	e.Use(custommw.PanicRecovery())
	e.Use(custommw.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(custommw.RateLimiterWithConfig(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitPerSecond*2))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)

	requireAuth := custommw.RequireAuth(tokenService, authService)

	user := api.Group("/user", requireAuth)
	user.GET("/me", userHandler.Me)
	user.PUT("/me", userHandler.UpdateMe)
	user.GET("", userHandler.List, custommw.RequireAdmin())
	user.GET("/:id", userHandler.Get, custommw.RequireAdmin())
	user.PUT("/:id", userHandler.Update, custommw.RequireAdmin())
	user.DELETE("/:id", userHandler.Delete, custommw.RequireAdmin())

	accounts := api.Group("/accounts", requireAuth)
	accounts.GET("/get-accounts", accountHandler.GetAccounts)
	accounts.POST("/create-account", accountHandler.CreateAccount)
	accounts.PUT("/update-account/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/delete-account/:id", accountHandler.DeleteAccount)

	trans := api.Group("/trans", requireAuth)
	trans.GET("", transactionHandler.List)
	trans.POST("", transactionHandler.Create)
	trans.GET("/:id", transactionHandler.Get)
	trans.PUT("/:id", transactionHandler.Update)
	trans.DELETE("/:id", transactionHandler.Delete)

	currency := api.Group("/currency", requireAuth)
	currency.GET("/get-rates", currencyHandler.GetRates)
	currency.POST("/convert", currencyHandler.Convert)
	currency.GET("/supported", currencyHandler.Supported)
	currency.POST("/refresh", currencyHandler.Refresh, custommw.RequireAdmin())

	return e
}
