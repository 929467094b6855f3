// Package main is the server entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"aura-server/internal/cache"
	"aura-server/internal/config"
	"aura-server/internal/handler"
	"aura-server/internal/middleware"
	"aura-server/internal/model"
	"aura-server/internal/repository"
	"aura-server/internal/service"
	"aura-server/pkg/jwt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load("./configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisCache, err := cache.NewRedisCache(cfg)
	if err != nil {
		log.Fatalf("Failed to init redis: %v", err)
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpire,
		cfg.JWT.RefreshExpire,
	)

	// Repository layer.
	userRepo := repository.NewUserRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	wellnessRepo := repository.NewWellnessRepository(db)

	// Service layer.
	aiService := service.NewAIService(&cfg.AI)
	authService := service.NewAuthService(userRepo, redisCache, jwtService)
	userService := service.NewUserService(userRepo)
	conversationService := service.NewConversationService(conversationRepo, messageRepo, userRepo, aiService)
	diaryService := service.NewDiaryService(diaryRepo, aiService)
	wellnessService := service.NewWellnessService(wellnessRepo, userRepo)

	// Handler layer.
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	conversationHandler := handler.NewConversationHandler(conversationService)
	diaryHandler := handler.NewDiaryHandler(diaryService)
	wellnessHandler := handler.NewWellnessHandler(wellnessService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware())

	registerRoutes(router, jwtService, redisCache,
		authHandler, userHandler, conversationHandler, diaryHandler, wellnessHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // AI generation can take up to 30s
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := redisCache.Close(); err != nil {
		log.Printf("Failed to close redis: %v", err)
	}

	log.Println("Server exited")
}

// initDatabase opens the MySQL connection and configures the pool.
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.MySQL.Username,
		cfg.MySQL.Password,
		cfg.MySQL.Host,
		cfg.MySQL.Port,
		cfg.MySQL.Database,
		cfg.MySQL.Charset,
	)

	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MySQL.MaxLifetime) * time.Second)

	log.Println("Database connected successfully")
	return db, nil
}

// autoMigrate creates or updates the database tables.
func autoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&model.User{},
		&model.Conversation{},
		&model.Message{},
		&model.DiaryEntry{},
		&model.WellnessRoutine{},
		&model.RoutineCompletion{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// registerRoutes wires every endpoint.
func registerRoutes(
	router *gin.Engine,
	jwtService *jwt.JWTService,
	redisCache *cache.RedisCache,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	conversationHandler *handler.ConversationHandler,
	diaryHandler *handler.DiaryHandler,
	wellnessHandler *handler.WellnessHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	authRequired := middleware.AuthMiddleware(jwtService, redisCache)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authRequired, authHandler.Logout)
	}

	profile := v1.Group("/profile")
	profile.Use(authRequired)
	{
		profile.GET("", userHandler.GetProfile)
		profile.PUT("", userHandler.UpdateProfile)
		profile.PUT("/password", userHandler.ChangePassword)
	}

	conversations := v1.Group("/conversations")
	conversations.Use(authRequired)
	{
		conversations.POST("", conversationHandler.Start)
		conversations.GET("", conversationHandler.List)
		conversations.GET("/:id", conversationHandler.Get)
		conversations.DELETE("/:id", conversationHandler.Delete)
		conversations.POST("/:id/messages", conversationHandler.SendMessage)
	}

	diary := v1.Group("/diary")
	diary.Use(authRequired)
	{
		diary.POST("", diaryHandler.Create)
		diary.GET("", diaryHandler.List)
		diary.GET("/stats/mood", diaryHandler.MoodStats)
		diary.POST("/transcribe", diaryHandler.Transcribe)
		diary.GET("/:id", diaryHandler.Get)
		diary.PUT("/:id", diaryHandler.Update)
		diary.DELETE("/:id", diaryHandler.Delete)
	}

	wellness := v1.Group("/wellness")
	wellness.Use(authRequired)
	{
		wellness.GET("/routines", wellnessHandler.ListRoutines)
		wellness.POST("/routines", wellnessHandler.CreateRoutine)
		wellness.GET("/routines/:id", wellnessHandler.GetRoutine)
		wellness.PUT("/routines/:id", wellnessHandler.UpdateRoutine)
		wellness.DELETE("/routines/:id", wellnessHandler.DeleteRoutine)
		wellness.POST("/routines/:id/complete", wellnessHandler.CompleteRoutine)
		wellness.GET("/completions", wellnessHandler.CompletionHistory)
		wellness.GET("/recommendations", wellnessHandler.Recommendations)
	}
}
