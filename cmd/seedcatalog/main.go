// Command seedcatalog loads the product seed list into the database and
// exits. The bot runs the same load on startup; this exists for
// operating on the catalog without starting the bot.
package main

import (
	"context"
	"log"

	"github.com/caloriebot/backend/config"
	"github.com/caloriebot/backend/internal/catalog"
	"github.com/caloriebot/backend/internal/database"
	"github.com/caloriebot/backend/internal/service"
	"github.com/caloriebot/backend/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	products := service.NewProductService(db)
	result, err := catalog.NewLoader(products, cfg, logger.L()).Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Printf("Seed finished: %d loaded, %d skipped", result.Loaded, result.Skipped)
}
