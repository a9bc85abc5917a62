package handlers

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/aflpredictions/predictions-api/internal/models"
)

// MockPredictionService
type MockPredictionService struct {
	GetTeamPredictionsFunc   func(ctx context.Context, q models.TeamPredictionsQuery) ([]models.MatchPrediction, error)
	GetPlayerPredictionsFunc func(ctx context.Context, q models.PlayerPredictionsQuery) ([]models.PlayerPrediction, error)
}

func (m *MockPredictionService) GetTeamPredictions(ctx context.Context, q models.TeamPredictionsQuery) ([]models.MatchPrediction, error) {
	if m.GetTeamPredictionsFunc != nil {
		return m.GetTeamPredictionsFunc(ctx, q)
	}
	return []models.MatchPrediction{}, nil
}

func (m *MockPredictionService) GetPlayerPredictions(ctx context.Context, q models.PlayerPredictionsQuery) ([]models.PlayerPrediction, error) {
	if m.GetPlayerPredictionsFunc != nil {
		return m.GetPlayerPredictionsFunc(ctx, q)
	}
	return []models.PlayerPrediction{}, nil
}

// MockPinger
type MockPinger struct {
	Err error
}

func (m *MockPinger) Ping(ctx context.Context) error { return m.Err }

// MockRedisPinger
type MockRedisPinger struct {
	Down bool
}

func (m *MockRedisPinger) Ping(ctx context.Context) *redis.StatusCmd {
	if m.Down {
		return redis.NewStatusResult("", errors.New("dial tcp: connection refused"))
	}
	return redis.NewStatusResult("PONG", nil)
}
