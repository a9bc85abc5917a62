package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/logic"
	"github.com/aflpredictions/predictions-api/internal/models"
)

func newFixtureSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	ctx := context.Background()

	s, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "predictions.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close(ctx) })

	for _, f := range fixtureDocs {
		if err := s.Put(ctx, f.id, json.RawMessage(f.doc)); err != nil {
			t.Fatalf("Put(%s) error = %v", f.id, err)
		}
	}
	return s
}

func TestSQLiteStore_Predicates(t *testing.T) {
	runPredicateCases(t, newFixtureSQLiteStore(t))
}

func TestSQLiteStore_PrefixIgnoresNumericMatchID(t *testing.T) {
	s := newFixtureSQLiteStore(t)
	ctx := context.Background()
	if err := s.Put(ctx, "numeric", json.RawMessage(`{"id": "numeric", "matchId": 202517009, "predictionType": "team_match"}`)); err != nil {
		t.Fatal(err)
	}

	docs, err := s.Query(ctx, mustMatchPredicate(t, "202517", ""))
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range docIDs(t, docs) {
		if id == "numeric" {
			t.Error("prefix matched a numeric matchId")
		}
	}
}

func TestSQLiteStore_PutReplaces(t *testing.T) {
	s := newFixtureSQLiteStore(t)
	ctx := context.Background()
	if err := s.Put(ctx, "p-3", json.RawMessage(`{"id": "p-3", "matchId": "202517001", "predictionType": "player_performance"}`)); err != nil {
		t.Fatal(err)
	}

	docs, err := s.Query(ctx, logic.BuildPlayerPredicate(models.PlayerPredictionsQuery{MatchID: "202517001"}))
	if err != nil {
		t.Fatal(err)
	}
	if got := docIDs(t, docs); len(got) != 3 {
		t.Errorf("ids = %v, want p-1 p-2 p-3", got)
	}
}

func TestSQLiteStore_MigrationsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "again.db")

	for i := 0; i < 2; i++ {
		s, err := NewSQLiteStore(ctx, path, zap.NewNop())
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := s.Ping(ctx); err != nil {
			t.Fatal(err)
		}
		s.Close(ctx)
	}
}

func TestRenderSQLite(t *testing.T) {
	query, args, err := renderSQLite(mustMatchPredicate(t, "202517", ""))
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT doc FROM predictions WHERE json_extract(doc, '$.predictionType') = ? AND " +
		"(json_type(doc, '$.matchId') = 'text' AND substr(json_extract(doc, '$.matchId'), 1, length(?)) = ?)"
	if query != want {
		t.Errorf("query =\n%s\nwant\n%s", query, want)
	}
	if len(args) != 3 || args[1] != "202517" || args[2] != "202517" {
		t.Errorf("args = %v", args)
	}
	if strings.Count(query, "?") != len(args) {
		t.Errorf("placeholder count does not match %d args", len(args))
	}
}
