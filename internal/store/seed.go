package store

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// WritableStore is a backend the seeder can load documents into
type WritableStore interface {
	Store
	Writer
}

// OpenWriter opens a backend for seeding. Unlike Open it fails fast, and for
// postgres it applies the schema first.
func OpenWriter(ctx context.Context, opts Options, logger *zap.Logger) (WritableStore, error) {
	switch opts.Driver {
	case DriverMongo, "":
		return NewMongoStore(ctx, opts.URL, opts.Database, opts.Collection)
	case DriverPostgres:
		if err := MigratePostgres(ctx, opts.URL, logger); err != nil {
			return nil, err
		}
		return NewPostgresStore(ctx, opts.URL)
	case DriverSQLite:
		return NewSQLiteStore(ctx, opts.URL, logger)
	case DriverMemory:
		return nil, fmt.Errorf("store driver %q is read-only", opts.Driver)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// Seed writes every document to w keyed by its id, falling back to matchId
// for match documents that carry no id. It stops at the first failure and
// returns how many documents were written.
func Seed(ctx context.Context, w Writer, docs []json.RawMessage) (int, error) {
	for i, doc := range docs {
		var key struct {
			ID      string `json:"id"`
			MatchID string `json:"matchId"`
			Type    string `json:"predictionType"`
		}
		if err := json.Unmarshal(doc, &key); err != nil {
			return i, fmt.Errorf("document %d: %w", i, err)
		}
		id := key.ID
		if id == "" && key.Type == "team_match" {
			id = key.MatchID
		}
		if id == "" {
			return i, fmt.Errorf("document %d has no id", i)
		}
		if err := w.Put(ctx, id, doc); err != nil {
			return i, fmt.Errorf("put %s: %w", id, err)
		}
	}
	return len(docs), nil
}
