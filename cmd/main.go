package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dategogo/backend/internal/api/handler"
	"dategogo/backend/internal/auth"
	"dategogo/backend/internal/chathub"
	"dategogo/backend/internal/config"
	"dategogo/backend/internal/models"
	"dategogo/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.ChatMessage{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting DateGoGo chat core...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	store := storage.NewStorageService(db, rdb, cfg.OnlineTTL)
	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)

	// The presence registry is built here, once, and handed to every
	// component that needs it.
	registry := chathub.NewRegistry()
	router := chathub.NewRouter(registry, store)
	heartbeat := chathub.NewHeartbeat(registry, store, cfg.HeartbeatInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go heartbeat.Run(ctx)

	r := gin.Default()
	h := handler.NewHandler(registry, router, store, authSvc, cfg.IdleTimeout, cfg.SendTimeout)

	r.GET("/ws/chat/:token", h.ServeWebSocket)
	api := r.Group("/api/chat")
	api.GET("/history", h.GetChatHistory)
	api.GET("/contacts", h.GetChatContacts)
	api.GET("/unread", h.GetUnreadCount)
	api.POST("/read", h.MarkAsRead)
	api.GET("/online", h.GetOnlineStatus)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Graceful shutdown failed: %v", err)
	}
}
