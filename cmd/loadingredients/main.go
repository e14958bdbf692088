package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/foodgram-app/backend/config"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/fixtures"
)

func main() {
	filePath := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV")
	flag.Parse()

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

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *filePath, err)
	}
	defer f.Close()

	created, err := fixtures.LoadIngredients(db, f)
	if err != nil {
		log.Fatalf("Failed to load ingredients: %v", err)
	}
	log.Printf("Loaded %d new ingredients from %s", created, *filePath)
}
