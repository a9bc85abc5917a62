package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aflpredictions/predictions-api/internal/logic"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// PostgresStore reads predictions from a jsonb document table
type PostgresStore struct {
	pool  PgPool
	close func()
}

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	if url == "" {
		return nil, ErrNotConfigured
	}
	// pgxpool opens connections lazily, so this only parses the URL
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	return &PostgresStore{pool: pool, close: pool.Close}, nil
}

func (s *PostgresStore) Query(ctx context.Context, p logic.Predicate) ([]json.RawMessage, error) {
	query, args, err := renderPostgres(p)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	return docs, rows.Err()
}

// Put upserts a document. Used by the seeder, never by the API.
func (s *PostgresStore) Put(ctx context.Context, id string, doc json.RawMessage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO predictions (id, doc) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, id, string(doc))
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Backend() string { return DriverPostgres }

func (s *PostgresStore) Close(ctx context.Context) error {
	if s.close != nil {
		s.close()
	}
	return nil
}

// renderPostgres builds the SQL for p against predictions(doc jsonb).
// Field names come from the predicate allow-list, values are always bound.
func renderPostgres(p logic.Predicate) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	for _, c := range p.Clauses {
		n := len(args) + 1
		switch c.Op {
		case logic.OpEqual:
			switch c.Value.(type) {
			case int64:
				// jsonb equality keeps "17" and 17 apart
				conds = append(conds, fmt.Sprintf("doc -> '%s' = to_jsonb($%d::bigint)", c.Field, n))
			default:
				conds = append(conds, fmt.Sprintf("doc -> '%s' = to_jsonb($%d::text)", c.Field, n))
			}
		case logic.OpStartsWith:
			// ->> would turn a numeric matchId into text
			conds = append(conds, fmt.Sprintf("jsonb_typeof(doc -> '%s') = 'string' AND starts_with(doc ->> '%s', $%d)", c.Field, c.Field, n))
		default:
			return "", nil, fmt.Errorf("unsupported operator %s", c.Op)
		}
		args = append(args, c.Value)
	}
	return "SELECT doc FROM predictions WHERE " + strings.Join(conds, " AND "), args, nil
}
