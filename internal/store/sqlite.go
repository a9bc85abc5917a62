package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/logic"
)

// SQLiteStore keeps predictions as JSON text in a local file. Used for
// development and for exercising predicates in tests.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, ErrNotConfigured
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := Migrate(ctx, db, DialectSQLite, logger); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Query(ctx context.Context, p logic.Predicate) ([]json.RawMessage, error) {
	query, args, err := renderSQLite(p)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	return docs, rows.Err()
}

// Put stores a document under id, replacing any previous version. The
// service never calls it; it exists for fixtures and local tooling.
func (s *SQLiteStore) Put(ctx context.Context, id string, doc json.RawMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO predictions (id, doc) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`, id, string(doc))
	return err
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Backend() string { return DriverSQLite }

func (s *SQLiteStore) Close(ctx context.Context) error { return s.db.Close() }

func renderSQLite(p logic.Predicate) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	for _, c := range p.Clauses {
		path := "'$." + c.Field + "'"
		switch c.Op {
		case logic.OpEqual:
			// json_extract yields INTEGER/REAL for numbers and TEXT for strings,
			// and SQLite does not convert between them here
			conds = append(conds, fmt.Sprintf("json_extract(doc, %s) = ?", path))
			args = append(args, c.Value)
		case logic.OpStartsWith:
			conds = append(conds, fmt.Sprintf(
				"(json_type(doc, %s) = 'text' AND substr(json_extract(doc, %s), 1, length(?)) = ?)", path, path))
			args = append(args, c.Value, c.Value)
		default:
			return "", nil, fmt.Errorf("unsupported operator %s", c.Op)
		}
	}
	return "SELECT doc FROM predictions WHERE " + strings.Join(conds, " AND "), args, nil
}
