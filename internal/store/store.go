// Package store implements the prediction store accessor over several
// document-capable backends. Every backend takes a logic.Predicate, renders
// it into its own query dialect, and returns the matching documents as raw
// JSON.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/logic"
)

// Backend names accepted by Open
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// ErrNotConfigured is returned by every query when no connection string was supplied
var ErrNotConfigured = errors.New("store connection string is not configured")

// Store is a prediction store that owns its connections
type Store interface {
	logic.PredictionStore
	Close(ctx context.Context) error
}

// Writer stores documents. Only the seeding tools write.
type Writer interface {
	Put(ctx context.Context, id string, doc json.RawMessage) error
}

// Options selects and configures a backend
type Options struct {
	Driver     string
	URL        string // connection string, DSN, sqlite path or fixture file
	Database   string
	Collection string
	// QueryTimeout bounds a single query; zero leaves it to the caller's context
	QueryTimeout time.Duration
}

// Open builds the configured backend. Connection problems do not fail Open:
// the returned store reports them on every query so the process can start
// without a reachable database. Only an unknown driver is an error.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Driver {
	case DriverMongo, "":
		s, err = NewMongoStore(ctx, opts.URL, opts.Database, opts.Collection)
	case DriverPostgres:
		s, err = NewPostgresStore(ctx, opts.URL)
	case DriverSQLite:
		s, err = NewSQLiteStore(ctx, opts.URL, logger)
	case DriverMemory:
		s, err = LoadMemoryStore(opts.URL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}

	backend := opts.Driver
	if backend == "" {
		backend = DriverMongo
	}
	if err != nil {
		logger.Warn("prediction store unavailable, queries will fail until fixed",
			zap.String("driver", backend), zap.Error(err))
		s = &failedStore{backend: backend, err: err}
	}

	return &instrumentedStore{Store: s, timeout: opts.QueryTimeout}, nil
}

// failedStore stands in for a backend that could not be constructed
type failedStore struct {
	backend string
	err     error
}

func (f *failedStore) Query(ctx context.Context, p logic.Predicate) ([]json.RawMessage, error) {
	return nil, f.err
}

func (f *failedStore) Ping(ctx context.Context) error { return f.err }
func (f *failedStore) Backend() string { return f.backend }
func (f *failedStore) Close(ctx context.Context) error { return nil }

// instrumentedStore records query metrics and applies the per-query timeout
type instrumentedStore struct {
	Store
	timeout time.Duration
}

func (s *instrumentedStore) Query(ctx context.Context, p logic.Predicate) ([]json.RawMessage, error) {
	if err := p.Validate(); err != nil {
		queriesTotal.WithLabelValues(s.Backend(), string(p.Kind), "invalid").Inc()
		return nil, fmt.Errorf("invalid predicate: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	docs, err := s.Store.Query(ctx, p)
	queryDuration.WithLabelValues(s.Backend(), string(p.Kind)).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	queriesTotal.WithLabelValues(s.Backend(), string(p.Kind), outcome).Inc()
	if err == nil {
		documentsReturned.WithLabelValues(s.Backend(), string(p.Kind)).Observe(float64(len(docs)))
	}
	return docs, err
}
