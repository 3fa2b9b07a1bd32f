// Command seeder inserts random customers into the configured store and exits.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/event"
	"customer-service/internal/infrastructure/database"
	"customer-service/internal/infrastructure/logging"
	"customer-service/internal/seed"
)

func main() {
	configPath := flag.String("config", ".", "directory holding config.yml and .env")
	count := flag.Int("count", 0, "number of customers to insert; defaults to seed.count")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Logger)

	n := cfg.Seed.Count
	if *count > 0 {
		n = *count
	}

	ctx := context.Background()
	store, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open customer store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := customer.NewCustomerService(store.Repository, event.NopPublisher{}, logger)
	added, err := seed.NewRunner(svc, nil, logger).Run(ctx, n)
	if err != nil {
		logger.Error("Seeding failed", "error", err, "added", added)
		store.Close()
		os.Exit(1)
	}
	logger.Info("Seeding complete", "added", added)
}
