package logic

import (
	"errors"
	"testing"

	"github.com/aflpredictions/predictions-api/internal/models"
)

func TestBuildMatchPredicate(t *testing.T) {
	tests := []struct {
		name      string
		query     models.TeamPredictionsQuery
		wantQuery string
		wantArgs  map[string]any
		wantErr   bool
	}{
		{
			name:      "Combined year and round prefix",
			query:     models.TeamPredictionsQuery{Round: "202517"},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type AND STARTSWITH(c.matchId, @round)",
			wantArgs:  map[string]any{"@type": "team_match", "@round": "202517"},
		},
		{
			name:      "Prefix ignores year",
			query:     models.TeamPredictionsQuery{Round: "202517", Year: "2024"},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type AND STARTSWITH(c.matchId, @round)",
			wantArgs:  map[string]any{"@type": "team_match", "@round": "202517"},
		},
		{
			name:      "Prefix ignores malformed year",
			query:     models.TeamPredictionsQuery{Round: "202517", Year: "soon"},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type AND STARTSWITH(c.matchId, @round)",
			wantArgs:  map[string]any{"@type": "team_match", "@round": "202517"},
		},
		{
			name:      "Round and year",
			query:     models.TeamPredictionsQuery{Round: "5", Year: "2025"},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type AND c.round = @round AND c.year = @year",
			wantArgs:  map[string]any{"@type": "team_match", "@round": int64(5), "@year": int64(2025)},
		},
		{
			name:      "Round only",
			query:     models.TeamPredictionsQuery{Round: "17"},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type AND c.round = @round",
			wantArgs:  map[string]any{"@type": "team_match", "@round": int64(17)},
		},
		{
			name:      "Five character round is a plain round",
			query:     models.TeamPredictionsQuery{Round: "20251"},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type AND c.round = @round",
			wantArgs:  map[string]any{"@type": "team_match", "@round": int64(20251)},
		},
		{
			name:      "Seven character round is a plain round",
			query:     models.TeamPredictionsQuery{Round: "2025170", Year: "2025"},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type AND c.round = @round AND c.year = @year",
			wantArgs:  map[string]any{"@type": "team_match", "@round": int64(2025170), "@year": int64(2025)},
		},
		{
			name:      "Year only",
			query:     models.TeamPredictionsQuery{Year: "2025"},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type AND c.year = @year",
			wantArgs:  map[string]any{"@type": "team_match", "@year": int64(2025)},
		},
		{
			name:      "Neither",
			query:     models.TeamPredictionsQuery{},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type",
			wantArgs:  map[string]any{"@type": "team_match"},
		},
		{
			name:      "Empty values are absent",
			query:     models.TeamPredictionsQuery{Round: "", Year: " "},
			wantQuery: "SELECT * FROM c WHERE c.predictionType = @type",
			wantArgs:  map[string]any{"@type": "team_match"},
		},
		{
			name:    "Non-numeric round",
			query:   models.TeamPredictionsQuery{Round: "five"},
			wantErr: true,
		},
		{
			name:    "Six character non-numeric round",
			query:   models.TeamPredictionsQuery{Round: "2025ab"},
			wantErr: true,
		},
		{
			name:    "Non-numeric year with round",
			query:   models.TeamPredictionsQuery{Round: "5", Year: "last"},
			wantErr: true,
		},
		{
			name:    "Non-numeric year alone",
			query:   models.TeamPredictionsQuery{Year: "20x5"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := BuildMatchPredicate(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildMatchPredicate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("error %v does not match ErrInvalidParameter", err)
				}
				return
			}
			if got := p.String(); got != tt.wantQuery {
				t.Errorf("query = %q, want %q", got, tt.wantQuery)
			}
			args := p.Parameters()
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for k, want := range tt.wantArgs {
				if args[k] != want {
					t.Errorf("arg %s = %#v, want %#v", k, args[k], want)
				}
			}
			if p.Kind != models.PredictionTypeTeamMatch {
				t.Errorf("Kind = %q", p.Kind)
			}
			if err := p.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestBuildMatchPredicate_PrefixAlwaysForSixChars(t *testing.T) {
	for _, round := range []string{"000001", "202401", "202517", "999999"} {
		p, err := BuildMatchPredicate(models.TeamPredictionsQuery{Round: round, Year: "1999"})
		if err != nil {
			t.Fatalf("round %s: %v", round, err)
		}
		c, ok := p.Clause(FieldMatchID)
		if !ok || c.Op != OpStartsWith || c.Value != round {
			t.Errorf("round %s: clause = %+v, want matchId prefix", round, c)
		}
		if _, ok := p.Clause(FieldYear); ok {
			t.Errorf("round %s: year clause present", round)
		}
		if _, ok := p.Clause(FieldRound); ok {
			t.Errorf("round %s: round clause present", round)
		}
	}
}

func TestBuildPlayerPredicate(t *testing.T) {
	p := BuildPlayerPredicate(models.PlayerPredictionsQuery{})
	if got := p.String(); got != "SELECT * FROM c WHERE c.predictionType = @type" {
		t.Errorf("query = %q", got)
	}
	if p.Parameters()["@type"] != "player_performance" {
		t.Errorf("type = %v", p.Parameters()["@type"])
	}

	p = BuildPlayerPredicate(models.PlayerPredictionsQuery{MatchID: "202517003"})
	if got := p.String(); got != "SELECT * FROM c WHERE c.predictionType = @type AND c.matchId = @matchId" {
		t.Errorf("query = %q", got)
	}
	if v := p.Parameters()["@matchId"]; v != "202517003" {
		t.Errorf("matchId = %#v, want string 202517003", v)
	}
}

func TestPredicateValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Predicate
		wantErr bool
	}{
		{"Empty", Predicate{}, true},
		{"Unknown field", Predicate{Clauses: []Clause{{Field: "venue'; DROP", Op: OpEqual, Value: "x"}}}, true},
		{"Float value", Predicate{Clauses: []Clause{{Field: FieldRound, Op: OpEqual, Value: 1.5}}}, true},
		{"Numeric prefix", Predicate{Clauses: []Clause{{Field: FieldMatchID, Op: OpStartsWith, Value: int64(2025)}}}, true},
		{"Valid", BuildPlayerPredicate(models.PlayerPredictionsQuery{MatchID: "x"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
