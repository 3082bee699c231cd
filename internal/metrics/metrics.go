// Package metrics holds the Prometheus collectors of the skill.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zonaei",
		Subsystem: "skill",
		Name:      "requests_total",
		Help:      "Turns answered, by the handler that produced the response.",
	}, []string{"handler"})

	Errors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zonaei",
		Subsystem: "skill",
		Name:      "errors_total",
		Help:      "Turns that ended in the apology error handler.",
	})

	CatalogDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "zonaei",
		Subsystem: "catalog",
		Name:      "request_duration_seconds",
		Help:      "Latency of catalog lookups.",
		Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"op", "outcome"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "zonaei",
		Name:      "ratelimited_total",
		Help:      "Requests rejected by the per-user rate limiter.",
	})
)
