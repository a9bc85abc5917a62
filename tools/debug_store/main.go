package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/config"
	"github.com/aflpredictions/predictions-api/internal/logic"
	"github.com/aflpredictions/predictions-api/internal/models"
	"github.com/aflpredictions/predictions-api/internal/store"
)

// Pings the configured store and counts documents of each kind.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Options{
		Driver:     cfg.StoreDriver,
		URL:        cfg.StoreURL,
		Database:   cfg.DatabaseName,
		Collection: cfg.Collection,
	}, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close(ctx)

	if err := s.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping %s store: %v", s.Backend(), err)
	}
	fmt.Printf("store: %s (%s/%s)\n", s.Backend(), cfg.DatabaseName, cfg.Collection)

	matches, err := logic.BuildMatchPredicate(models.TeamPredictionsQuery{})
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range []logic.Predicate{matches, logic.BuildPlayerPredicate(models.PlayerPredictionsQuery{})} {
		docs, err := s.Query(ctx, p)
		if err != nil {
			log.Fatalf("Query %s failed: %v", p.Kind, err)
		}
		fmt.Printf("%s: %d documents\n", p.Kind, len(docs))
	}
}
