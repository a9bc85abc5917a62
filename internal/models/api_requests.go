package models

// TeamPredictionsQuery holds the raw query parameters of GET /api/getTeamPredictions.
// Empty strings mean the parameter was not supplied.
type TeamPredictionsQuery struct {
	Round string `json:"round" validate:"omitempty,number,max=12"`
	Year  string `json:"year" validate:"omitempty,max=12"` // parsed only when the branch uses it
}

// PlayerPredictionsQuery holds the raw query parameters of GET /api/getPlayerPredictions.
type PlayerPredictionsQuery struct {
	MatchID string `json:"matchId" validate:"omitempty,max=64,printascii"`
}

// ErrorResponse is the body returned with 4xx/5xx statuses
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
