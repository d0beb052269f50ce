package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/nyctaxi/trip-ingestion/internal/config"
	"github.com/nyctaxi/trip-ingestion/internal/database"
	"github.com/nyctaxi/trip-ingestion/internal/ingestion"
	"github.com/nyctaxi/trip-ingestion/internal/schema"
)

func setup(ctx context.Context) (string, *ingestion.IngestionService, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// The data directory may be passed as the single CLI argument,
	// overriding the configured default.
	dataDir := cfg.DataDir
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	db, err := database.ConnectDB(cfg.DatabasePath)
	if err != nil {
		return "", nil, nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	dbManager := database.NewDuckDBManager(ctx, db)
	fileProcessor := ingestion.NewFileProcessor()
	pipeline := ingestion.NewPipeline(dbManager, schema.TripFields())
	service := ingestion.NewIngestionService(dbManager, fileProcessor, pipeline, *cfg)

	cleanupFunc := func() {
		db.Close()
	}

	return dataDir, service, cleanupFunc, nil
}

func run(ctx context.Context) error {
	dataDir, service, cleanupFunc, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup(cleanupFunc)

	log.Println("Starting ingestion process...")
	return service.Execute(dataDir)
}

func cleanup(cleanupFunc func()) {
	log.Println("Cleaning up resources...")
	cleanupFunc()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}
	startTime := time.Now()

	if err := run(context.Background()); err != nil {
		log.Fatalf("Error during ingestion: %v\n", err)
	}

	log.Println("Ingestion process finished.")
	log.Printf("Execution time: %s\n", time.Since(startTime))
}
