package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "afl_store_queries_total",
		Help: "Prediction store queries by backend, kind and outcome",
	}, []string{"backend", "kind", "outcome"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "afl_store_query_duration_seconds",
		Help:    "Duration of prediction store queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "kind"})

	documentsReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "afl_store_documents_returned",
		Help:    "Documents returned per prediction store query",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"backend", "kind"})
)
