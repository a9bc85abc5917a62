package logic

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aflpredictions/predictions-api/internal/models"
)

// PredictionStore runs one read-only query against the predictions collection
// and returns the full result set as raw documents, in no particular order.
type PredictionStore interface {
	Query(ctx context.Context, p Predicate) ([]json.RawMessage, error)
	Ping(ctx context.Context) error
	Backend() string
}

// RedisClient defines the subset of the Redis client used for result caching
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// PredictionService serves the two prediction endpoints
type PredictionService interface {
	GetTeamPredictions(ctx context.Context, q models.TeamPredictionsQuery) ([]models.MatchPrediction, error)
	GetPlayerPredictions(ctx context.Context, q models.PlayerPredictionsQuery) ([]models.PlayerPrediction, error)
}
