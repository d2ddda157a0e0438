package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

func main() {
	clearCache := flag.Bool("clear-cache", false, "drop every cached page after migrating")
	staff := flag.String("staff", "", "grant staff rights to this username")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Yatube migration")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}
	logger.Info("Schema up to date")

	if *staff != "" {
		users := db.NewUserRepository(db.NewRepository(database.DB))
		ok, err := users.SetStaff(ctx, *staff, true)
		if err != nil {
			logger.Fatal("Failed to grant staff rights", zap.Error(err))
		}
		if !ok {
			logger.Fatal("No such user", zap.String("username", *staff))
		}
		logger.Info("Granted staff rights", zap.String("username", *staff))
	}

	if *clearCache {
		pageCache, err := cache.New(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer pageCache.Close()

		removed, err := pageCache.Clear(ctx)
		if err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
			logger.Fatal("Failed to clear cache", zap.Error(err))
		}
		logger.Info("Page cache cleared", zap.Int64("keys", removed))
	}
}
