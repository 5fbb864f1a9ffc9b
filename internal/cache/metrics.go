package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "directory_cache_hits_total",
		Help: "Dataset cache reads that returned a fresh entry.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "directory_cache_misses_total",
		Help: "Dataset cache reads that found nothing usable.",
	})
	cacheWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "directory_cache_write_failures_total",
		Help: "Dataset cache writes that failed and were skipped.",
	})
)
