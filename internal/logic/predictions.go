package logic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/models"
)

// ErrQueryFailed matches any store-level failure returned by the service
var ErrQueryFailed = errors.New("query failed")

// QueryError wraps a store failure. Details carries the store's own message.
type QueryError struct {
	Kind models.PredictionType
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s predictions: %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQueryFailed }

// Details returns the underlying store diagnostic
func (e *QueryError) Details() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// PredictionServiceConfig wires the prediction service. Redis is optional;
// a nil client or zero CacheTTL disables caching.
type PredictionServiceConfig struct {
	Store    PredictionStore
	Redis    RedisClient
	CacheTTL time.Duration
	Logger   *zap.Logger
}

type predictionService struct {
	store    PredictionStore
	cache    RedisClient
	cacheTTL time.Duration
	logger   *zap.SugaredLogger
}

func NewPredictionService(cfg PredictionServiceConfig) PredictionService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &predictionService{
		store:    cfg.Store,
		cacheTTL: cfg.CacheTTL,
		logger:   logger.Sugar(),
	}
	if cfg.Redis != nil && cfg.CacheTTL > 0 {
		s.cache = cfg.Redis
	}
	return s
}

func (s *predictionService) GetTeamPredictions(ctx context.Context, q models.TeamPredictionsQuery) ([]models.MatchPrediction, error) {
	p, err := BuildMatchPredicate(q)
	if err != nil {
		return nil, err
	}
	return fetchPredictions[models.MatchPrediction](ctx, s, p)
}

func (s *predictionService) GetPlayerPredictions(ctx context.Context, q models.PlayerPredictionsQuery) ([]models.PlayerPrediction, error) {
	return fetchPredictions[models.PlayerPrediction](ctx, s, BuildPlayerPredicate(q))
}

// fetchPredictions runs p (through the cache when enabled) and decodes every
// document into T. The result is never nil so it encodes as [].
func fetchPredictions[T any](ctx context.Context, s *predictionService, p Predicate) ([]T, error) {
	key := cacheKey(p)

	if s.cache != nil {
		var cached []T
		hit, err := s.readCache(ctx, key, &cached)
		if err != nil {
			s.logger.Warnw("Prediction cache read failed", "error", err, "key", key)
		}
		if hit {
			cacheRequests.WithLabelValues(string(p.Kind), "hit").Inc()
			return cached, nil
		}
		cacheRequests.WithLabelValues(string(p.Kind), "miss").Inc()
	}

	docs, err := s.store.Query(ctx, p)
	if err != nil {
		return nil, &QueryError{Kind: p.Kind, Err: err}
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			decodeFailures.WithLabelValues(string(p.Kind)).Inc()
			s.logger.Warnw("Skipping undecodable prediction document", "error", err, "kind", p.Kind)
			continue
		}
		out = append(out, item)
	}

	if s.cache != nil {
		if err := s.writeCache(ctx, key, out); err != nil {
			s.logger.Warnw("Prediction cache write failed", "error", err, "key", key)
		}
	}

	return out, nil
}

func (s *predictionService) readCache(ctx context.Context, key string, dst any) (bool, error) {
	b, err := s.cache.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *predictionService) writeCache(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, b, s.cacheTTL).Err()
}

// cacheKey hashes the rendered predicate together with its parameter values
func cacheKey(p Predicate) string {
	h := sha256.New()
	h.Write([]byte(p.String()))
	for _, c := range p.Clauses {
		fmt.Fprintf(h, "|%s=%T:%v", c.Param, c.Value, c.Value)
	}
	return "predictions:" + string(p.Kind) + ":" + hex.EncodeToString(h.Sum(nil))
}
