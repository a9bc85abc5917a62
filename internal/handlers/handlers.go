package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/logic"
)

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// RedisPinger defines the subset of the Redis client used by the readiness probe
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Config struct {
	Store  Pinger
	Redis  RedisPinger // nil when caching is disabled
	Logger *zap.Logger
	// Services
	Prediction logic.PredictionService
}

type Handler struct {
	store      Pinger
	redis      RedisPinger
	logger     *zap.SugaredLogger
	validator  *validator.Validate
	prediction logic.PredictionService
}

func New(cfg Config) *Handler {
	return &Handler{
		store:      cfg.Store,
		redis:      cfg.Redis,
		logger:     cfg.Logger.Sugar(),
		validator:  validator.New(),
		prediction: cfg.Prediction,
	}
}
