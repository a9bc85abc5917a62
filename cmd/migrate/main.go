package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/config"
	"github.com/aflpredictions/predictions-api/internal/logger"
	"github.com/aflpredictions/predictions-api/internal/store"
)

// Applies the predictions schema to the configured SQL store
func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New("predictions-migrate", cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch cfg.StoreDriver {
	case store.DriverPostgres:
		err = store.MigratePostgres(ctx, cfg.StoreURL, log)
	case store.DriverSQLite:
		// the sqlite store migrates itself on open
		var s *store.SQLiteStore
		if s, err = store.NewSQLiteStore(ctx, cfg.StoreURL, log); err == nil {
			err = s.Close(ctx)
		}
	default:
		log.Info("store has no schema to migrate", zap.String("driver", cfg.StoreDriver))
		return
	}
	if err != nil {
		log.Fatal("migration failed", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	log.Info("migrations applied", zap.String("driver", cfg.StoreDriver))
}
