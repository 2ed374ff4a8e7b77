package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"libraryhub/database"
	"libraryhub/internal/config"
	"libraryhub/internal/httpapi/handler"
	"libraryhub/internal/httpapi/middleware"
	"libraryhub/internal/httpapi/repository"
	"libraryhub/internal/httpapi/service"
	"libraryhub/internal/stats"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if err := database.Migrate(db, logger); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Request counters are optional; the API runs without Redis
	visits, err := stats.NewVisits(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis unavailable, request counters disabled", "error", err)
		visits = nil
	} else {
		defer visits.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	checkoutRepo := repository.NewCheckoutRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	bookService := service.NewBookService(bookRepo)
	checkoutService := service.NewCheckoutService(checkoutRepo, bookRepo, userRepo, cfg.LoanPeriod)
	homepageService := service.NewHomepageService(checkoutRepo, bookRepo, cfg.TrendingWindow, cfg.TrendingLimit)

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RequestCounter(visits))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	handler.NewAuthHandler(authService).RegisterRoutes(api.Group("/users"))
	handler.NewBookHandler(bookService).RegisterRoutes(api.Group("/books"))
	handler.NewCheckoutHandler(checkoutService).RegisterRoutes(api.Group("/checkouts"))
	handler.NewHomepageHandler(homepageService).RegisterRoutes(api)
	handler.NewStatsHandler(visits).RegisterRoutes(api)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("Library API server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
