package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "afl_prediction_cache_requests_total",
		Help: "Prediction cache lookups by kind and result",
	}, []string{"kind", "result"})

	decodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "afl_prediction_decode_failures_total",
		Help: "Stored documents that could not be decoded and were skipped",
	}, []string{"kind"})
)
