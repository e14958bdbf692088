package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/foodgram-app/backend/config"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	healthDB, err := database.NewRaw(cfg)
	if err != nil {
		log.Fatalf("Failed to open health-check connection: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, continuing without token cache and rate limiting: %v", err)
		redisClient = nil
	}

	ctx := context.Background()
	s3Config, err := config.NewS3Config(ctx)
	if err != nil {
		log.Fatalf("Failed to configure S3: %v", err)
	}
	if s3Config != nil {
		if err := s3Config.SetupBucketPolicy(ctx); err != nil {
			log.Printf("Failed to apply S3 bucket policy: %v", err)
		}
	}

	srv := server.New(cfg, db, redisClient, s3Config, healthDB)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
