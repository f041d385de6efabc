package main

import (
	"log"
	"net/http"

	_ "lifelog/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lifelog/internal/auth"
	"lifelog/internal/cache"
	"lifelog/internal/clock"
	"lifelog/internal/config"
	"lifelog/internal/db"
	"lifelog/internal/handler"
	"lifelog/internal/model"
	"lifelog/internal/repository"
	"lifelog/internal/router"
	"lifelog/internal/service"
)

// @title Lifelog API
// @version 1.0
// @description Personal activity journal with keyword search, title suggestions, and time-series insights.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Activity{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	clk := clock.System()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	activityRepo := repository.NewActivityRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cacheClient)
	activityService := service.NewActivityService(activityRepo, cacheClient, clk)
	insightsService := service.NewInsightsService(activityRepo, clk)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	activityHandler := handler.NewActivityHandler(activityService)
	insightsHandler := handler.NewInsightsHandler(insightsService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		activityHandler,
		insightsHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
