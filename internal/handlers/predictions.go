package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aflpredictions/predictions-api/internal/logic"
	"github.com/aflpredictions/predictions-api/internal/models"
)

const (
	msgInvalidParameters = "Invalid query parameters."
	msgTeamQueryFailed   = "Failed to query team predictions."
	msgPlayerQueryFailed = "Failed to query player predictions."
)

// GetTeamPredictions returns match predictions, optionally narrowed by round and year
// @Summary Get Team Predictions
// @Description A 6 character round is treated as a matchId prefix and year is ignored
// @Tags Predictions
// @Produce json
// @Param round query string false "Round number or 6 digit matchId prefix"
// @Param year query int false "Season"
// @Success 200 {array} models.MatchPrediction
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/getTeamPredictions [get]
func (h *Handler) GetTeamPredictions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := models.TeamPredictionsQuery{
		Round: strings.TrimSpace(query.Get("round")),
		Year:  strings.TrimSpace(query.Get("year")),
	}
	if err := h.validator.Struct(q); err != nil {
		h.errorDetailsResponse(w, http.StatusBadRequest, msgInvalidParameters, err.Error())
		return
	}

	matches, err := h.prediction.GetTeamPredictions(r.Context(), q)
	if err != nil {
		h.predictionError(w, err, msgTeamQueryFailed, "round", q.Round, "year", q.Year)
		return
	}
	if matches == nil {
		matches = []models.MatchPrediction{}
	}

	h.jsonResponse(w, http.StatusOK, matches)
}

// GetPlayerPredictions returns player predictions, optionally for a single match
// @Summary Get Player Predictions
// @Tags Predictions
// @Produce json
// @Param matchId query string false "Match ID"
// @Success 200 {array} models.PlayerPrediction
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/getPlayerPredictions [get]
func (h *Handler) GetPlayerPredictions(w http.ResponseWriter, r *http.Request) {
	q := models.PlayerPredictionsQuery{MatchID: strings.TrimSpace(r.URL.Query().Get("matchId"))}
	if err := h.validator.Struct(q); err != nil {
		h.errorDetailsResponse(w, http.StatusBadRequest, msgInvalidParameters, err.Error())
		return
	}

	players, err := h.prediction.GetPlayerPredictions(r.Context(), q)
	if err != nil {
		h.predictionError(w, err, msgPlayerQueryFailed, "matchId", q.MatchID)
		return
	}
	if players == nil {
		players = []models.PlayerPrediction{}
	}

	h.jsonResponse(w, http.StatusOK, players)
}

// predictionError maps service errors: bad input is a 400, anything else a 500
// carrying the store's message
func (h *Handler) predictionError(w http.ResponseWriter, err error, message string, keysAndValues ...interface{}) {
	if errors.Is(err, logic.ErrInvalidParameter) {
		h.errorDetailsResponse(w, http.StatusBadRequest, msgInvalidParameters, err.Error())
		return
	}

	h.logger.Errorw(message, append([]interface{}{"error", err}, keysAndValues...)...)

	details := err.Error()
	var qe *logic.QueryError
	if errors.As(err, &qe) {
		details = qe.Details()
	}
	h.errorDetailsResponse(w, http.StatusInternalServerError, message, details)
}
