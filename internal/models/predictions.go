package models

import "time"

// PredictionType discriminates the two record kinds stored in the predictions collection
type PredictionType string

const (
	PredictionTypeTeamMatch         PredictionType = "team_match"
	PredictionTypePlayerPerformance PredictionType = "player_performance"
)

// MatchPrediction is the team-level forecast for a single fixture
type MatchPrediction struct {
	MatchID        string         `json:"matchId"` // <year><round padded>..., e.g. "202517..."
	Year           int            `json:"year"`
	Round          int            `json:"round"`
	HomeTeam       string         `json:"homeTeam"`
	AwayTeam       string         `json:"awayTeam"`
	Venue          string         `json:"venue"`
	MatchDate      string         `json:"matchDate"` // ISO8601
	PredictionType PredictionType `json:"predictionType"`

	HomeWinProbability *float64 `json:"homeWinProbability,omitempty"`
	AwayWinProbability *float64 `json:"awayWinProbability,omitempty"`
	PredictedWinner    *string  `json:"predictedWinner,omitempty"`
	PredictedTotal     *float64 `json:"predictedTotal,omitempty"`
	PredictedMargin    *float64 `json:"predictedMargin,omitempty"`
}

// StartTime parses MatchDate. ok is false when the date is missing or malformed.
func (m MatchPrediction) StartTime() (t time.Time, ok bool) {
	for _, layout := range matchDateLayouts {
		if parsed, err := time.Parse(layout, m.MatchDate); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Feeds have written both offset and naive timestamps; naive ones are read as UTC.
var matchDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// PlayerPrediction is the per-player forecast for a single fixture
type PlayerPrediction struct {
	ID                   string               `json:"id"`
	MatchID              string               `json:"matchId"`
	Player               string               `json:"player"`
	Team                 string               `json:"team"`
	Opposition           string               `json:"opposition"`
	Venue                string               `json:"venue"`
	PredictionType       PredictionType       `json:"predictionType"`
	Predictions          PlayerStatLine       `json:"predictions"`
	BettingOpportunities []BettingOpportunity `json:"bettingOpportunities,omitempty"`
	MarketProbabilities  map[string]float64   `json:"marketProbabilities,omitempty"`
}

// HasBettingOpportunities reports whether at least one opportunity is attached
func (p PlayerPrediction) HasBettingOpportunities() bool {
	return len(p.BettingOpportunities) > 0
}

// PlayerStatLine holds the predicted box-score numbers
type PlayerStatLine struct {
	Disposals  float64 `json:"disposals"`
	Goals      float64 `json:"goals"`
	Supercoach float64 `json:"supercoach"`
}

// BettingOpportunity is a single market the model rates as worth backing
type BettingOpportunity struct {
	Market      string  `json:"market"`
	Probability float64 `json:"probability"` // 0..1
	Strength    string  `json:"strength"`
}
