package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aflpredictions/predictions-api/internal/config"
	"github.com/aflpredictions/predictions-api/internal/handlers"
	"github.com/aflpredictions/predictions-api/internal/logger"
	"github.com/aflpredictions/predictions-api/internal/logic"
	"github.com/aflpredictions/predictions-api/internal/store"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("predictions-api", cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	predictions, err := store.Open(ctx, store.Options{
		Driver:       cfg.StoreDriver,
		URL:          cfg.StoreURL,
		Database:     cfg.DatabaseName,
		Collection:   cfg.Collection,
		QueryTimeout: cfg.QueryTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := predictions.Close(closeCtx); err != nil {
			log.Warn("closing prediction store", zap.Error(err))
		}
	}()

	svcCfg := logic.PredictionServiceConfig{
		Store:    predictions,
		CacheTTL: cfg.CacheTTL,
		Logger:   log,
	}
	handlerCfg := handlers.Config{
		Store:  predictions,
		Logger: log,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			// caching is optional, so a bad URL only disables it
			log.Warn("invalid REDIS_URL, caching disabled", zap.Error(err))
		} else {
			rdb := redis.NewClient(opts)
			defer rdb.Close()
			svcCfg.Redis = rdb
			handlerCfg.Redis = rdb
		}
	}

	handlerCfg.Prediction = logic.NewPredictionService(svcCfg)
	h := handlers.New(handlerCfg)

	apiSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Router(cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           h.MetricsRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, srv := range []*http.Server{apiSrv, metricsSrv} {
		srv := srv
		g.Go(func() error {
			log.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(apiSrv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	log.Info("predictions api started",
		zap.String("store", predictions.Backend()),
		zap.Bool("cache", svcCfg.Redis != nil),
	)
	return g.Wait()
}
