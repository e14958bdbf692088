package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/foodgram-app/backend/config"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/fixtures"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := fixtures.SeedTestData(db); err != nil {
		log.Fatalf("Failed to seed test data: %v", err)
	}
	log.Println("Created test users, tags and recipes")
}
