package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedMigrations embed.FS

// goose dialect names
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

var migrationDirs = map[string]string{
	DialectPostgres: "migrations/postgres",
	DialectSQLite:   "migrations/sqlite",
}

// goose keeps its dialect and filesystem in package globals
var gooseMu sync.Mutex

// Migrate applies every pending migration for dialect
func Migrate(ctx context.Context, db *sql.DB, dialect string, logger *zap.Logger) error {
	dir, ok := migrationDirs[dialect]
	if !ok {
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}
	return nil
}

// MigratePostgres opens dsn through database/sql and applies the postgres schema
func MigratePostgres(ctx context.Context, dsn string, logger *zap.Logger) error {
	if dsn == "" {
		return ErrNotConfigured
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return Migrate(ctx, db, DialectPostgres, logger)
}

// gooseLogger routes goose output through zap
type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.s.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.s.Fatalf(format, v...) }
