package store

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/aflpredictions/predictions-api/internal/logic"
	"github.com/aflpredictions/predictions-api/internal/models"
)

type fixtureDoc struct {
	id  string
	doc string
}

var fixtureDocs = []fixtureDoc{
	{"202517001", `{"id": "202517001", "matchId": "202517001", "year": 2025, "round": 17, "homeTeam": "Sydney", "awayTeam": "Essendon", "predictionType": "team_match"}`},
	{"202517002", `{"id": "202517002", "matchId": "202517002", "year": 2025, "round": 17, "homeTeam": "Geelong", "awayTeam": "Carlton", "predictionType": "team_match"}`},
	{"202505001", `{"id": "202505001", "matchId": "202505001", "year": 2025, "round": 5, "homeTeam": "Richmond", "awayTeam": "Hawthorn", "predictionType": "team_match"}`},
	{"202405001", `{"id": "202405001", "matchId": "202405001", "year": 2024, "round": 5, "homeTeam": "Adelaide", "awayTeam": "Fremantle", "predictionType": "team_match"}`},
	// round stored as text never equals a numeric round
	{"202405002", `{"id": "202405002", "matchId": "202405002", "year": 2024, "round": "5", "homeTeam": "Melbourne", "awayTeam": "St Kilda", "predictionType": "team_match"}`},
	{"p-1", `{"id": "p-1", "matchId": "202517001", "player": "Errol Gulden", "team": "Sydney", "predictionType": "player_performance"}`},
	{"p-2", `{"id": "p-2", "matchId": "202517001", "player": "Zach Merrett", "team": "Essendon", "predictionType": "player_performance"}`},
	{"p-3", `{"id": "p-3", "matchId": "202517002", "player": "Patrick Cripps", "team": "Carlton", "predictionType": "player_performance"}`},
}

type predicateCase struct {
	name    string
	p       logic.Predicate
	wantIDs []string
}

func mustMatchPredicate(t *testing.T, round, year string) logic.Predicate {
	t.Helper()
	p, err := logic.BuildMatchPredicate(models.TeamPredictionsQuery{Round: round, Year: year})
	if err != nil {
		t.Fatalf("BuildMatchPredicate(%q, %q): %v", round, year, err)
	}
	return p
}

func predicateCases(t *testing.T) []predicateCase {
	return []predicateCase{
		{"All matches", mustMatchPredicate(t, "", ""), []string{"202405001", "202405002", "202505001", "202517001", "202517002"}},
		{"Prefix 202517", mustMatchPredicate(t, "202517", "2024"), []string{"202517001", "202517002"}},
		{"Round 5", mustMatchPredicate(t, "5", ""), []string{"202405001", "202505001"}},
		{"Round 5 year 2025", mustMatchPredicate(t, "5", "2025"), []string{"202505001"}},
		{"Year 2024", mustMatchPredicate(t, "", "2024"), []string{"202405001", "202405002"}},
		{"Round 99", mustMatchPredicate(t, "99", ""), nil},
		{"All players", logic.BuildPlayerPredicate(models.PlayerPredictionsQuery{}), []string{"p-1", "p-2", "p-3"}},
		{"Players of one match", logic.BuildPlayerPredicate(models.PlayerPredictionsQuery{MatchID: "202517001"}), []string{"p-1", "p-2"}},
		{"Players of unknown match", logic.BuildPlayerPredicate(models.PlayerPredictionsQuery{MatchID: "2025"}), nil},
	}
}

func docIDs(t *testing.T, docs []json.RawMessage) []string {
	t.Helper()
	var ids []string
	for _, d := range docs {
		var v struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(d, &v); err != nil {
			t.Fatalf("bad document %s: %v", d, err)
		}
		ids = append(ids, v.ID)
	}
	sort.Strings(ids)
	return ids
}

func runPredicateCases(t *testing.T, s logic.PredictionStore) {
	for _, tt := range predicateCases(t) {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := s.Query(context.Background(), tt.p)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			got := docIDs(t, docs)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("ids = %v, want %v", got, tt.wantIDs)
					break
				}
			}

			// read-only: a repeat returns the same set
			again, err := s.Query(context.Background(), tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if len(docIDs(t, again)) != len(got) {
				t.Errorf("repeat query returned %d documents, want %d", len(again), len(got))
			}
		})
	}
}
