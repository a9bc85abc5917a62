package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/config"
	"github.com/aflpredictions/predictions-api/internal/logger"
	"github.com/aflpredictions/predictions-api/internal/store"
)

// Loads a JSON array of prediction documents into the configured store.
// Existing documents with the same id are replaced.
func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	file := flag.String("file", "testdata/predictions.json", "JSON array of prediction documents")
	timeout := flag.Duration("timeout", time.Minute, "overall time limit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New("predictions-seeder", cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("read documents", zap.Error(err))
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Fatal("documents must be a JSON array", zap.String("file", *file), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	w, err := store.OpenWriter(ctx, store.Options{
		Driver:     cfg.StoreDriver,
		URL:        cfg.StoreURL,
		Database:   cfg.DatabaseName,
		Collection: cfg.Collection,
	}, log)
	if err != nil {
		log.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer w.Close(context.Background())

	n, err := store.Seed(ctx, w, docs)
	if err != nil {
		log.Error("seeding stopped", zap.Int("written", n), zap.Error(err))
		os.Exit(1)
	}
	log.Info("seeded predictions", zap.Int("documents", n), zap.String("store", w.Backend()))
}
