package filter

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/aflpredictions/predictions-api/internal/models"
)

var now = time.Date(2025, 7, 4, 9, 30, 0, 0, time.UTC)

func match(id string, round int, date string) models.MatchPrediction {
	return models.MatchPrediction{MatchID: id, Round: round, MatchDate: date, PredictionType: models.PredictionTypeTeamMatch}
}

func matchIDs(ms []models.MatchPrediction) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.MatchID
	}
	return ids
}

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchMode
		wantErr bool
	}{
		{"upcoming", Upcoming(), false},
		{"", Upcoming(), false},
		{"ALL", All(), false},
		{"17", Round(17), false},
		{" 3 ", Round(3), false},
		{"round 3", MatchMode{}, true},
		{"17.5", MatchMode{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMatchMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMatchMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Errorf("error %v is not ErrInvalidMode", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseMatchMode(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if again, _ := ParseMatchMode(got.String()); again != got {
				t.Errorf("String() %q does not parse back", got.String())
			}
		})
	}
}

func TestMatchMode_Label(t *testing.T) {
	if got := Round(5).Label(); got != "Round 5" {
		t.Errorf("Label() = %q", got)
	}
	if got := Upcoming().Label(); got != "Upcoming Matches" {
		t.Errorf("Label() = %q", got)
	}
	if got := All().Label(); got != "All Matches" {
		t.Errorf("Label() = %q", got)
	}
}

func TestFilterMatches_Upcoming(t *testing.T) {
	matches := []models.MatchPrediction{
		match("plus2", 17, now.Add(2*time.Hour).Format(time.RFC3339)),
		match("minus1", 17, now.Add(-time.Hour).Format(time.RFC3339)),
		match("plus1", 17, now.Add(time.Hour).Format(time.RFC3339)),
	}

	got := matchIDs(FilterMatches(matches, Upcoming(), now))
	want := []string{"plus1", "plus2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("upcoming = %v, want %v", got, want)
	}

	// input order untouched
	if matches[0].MatchID != "plus2" {
		t.Error("FilterMatches reordered its input")
	}
}

func TestFilterMatches_StrictlyAfterNow(t *testing.T) {
	matches := []models.MatchPrediction{match("now", 1, now.Format(time.RFC3339))}
	if got := FilterMatches(matches, Upcoming(), now); len(got) != 0 {
		t.Errorf("a match starting now counted as upcoming")
	}
}

func TestFilterMatches_Modes(t *testing.T) {
	matches := []models.MatchPrediction{
		match("r17b", 17, "2025-07-05T13:45:00"),
		match("bad", 17, "TBC"),
		match("r16", 16, "2025-06-28T19:40:00+10:00"),
		match("r17a", 17, "2025-07-04T19:40:00+10:00"),
		match("empty", 18, ""),
	}

	tests := []struct {
		name string
		mode MatchMode
		want []string
	}{
		{"All sorted, bad dates last", All(), []string{"r16", "r17a", "r17b", "bad", "empty"}},
		{"Round 17", Round(17), []string{"r17a", "r17b", "bad"}},
		{"Round with no matches", Round(3), []string{}},
		{"Upcoming skips bad dates", Upcoming(), []string{"r17a", "r17b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchIDs(FilterMatches(matches, tt.mode, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailableRounds(t *testing.T) {
	matches := []models.MatchPrediction{
		match("a", 17, ""), match("b", 3, ""), match("c", 17, ""), match("d", 10, ""),
	}
	if got, want := AvailableRounds(matches), []int{3, 10, 17}; !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableRounds() = %v, want %v", got, want)
	}
	if got := AvailableRounds(nil); len(got) != 0 {
		t.Errorf("AvailableRounds(nil) = %v", got)
	}

	// rounds come from the full list, not a filtered view
	if got := RoundModes(matches); len(got) != 5 || got[2] != Round(3) {
		t.Errorf("RoundModes() = %v", got)
	}
}
