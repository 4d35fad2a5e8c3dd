/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequestsTotal counts HTTP requests by method, route pattern and status.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weekweave_api_requests_total",
		Help: "Total number of API requests.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration tracks request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weekweave_api_request_duration_seconds",
		Help:    "API request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections gauges in-flight requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "weekweave_api_active_connections",
		Help: "Number of in-flight API requests.",
	})

	// SchedulesGenerated counts completed generation passes.
	SchedulesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weekweave_schedules_generated_total",
		Help: "Total number of schedule generation passes.",
	})

	// PlacementSatisfaction records the placed/requested hour ratio per
	// generation, so partially satisfied schedules show up operationally.
	PlacementSatisfaction = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "weekweave_placement_satisfaction_ratio",
		Help:    "Placed hours divided by requested hours per generation.",
		Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99, 1},
	})

	// UnplacedHoursTotal accumulates activity hours that found no slot.
	UnplacedHoursTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "weekweave_unplaced_hours_total",
		Help: "Total activity hours that could not be placed.",
	})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordGeneration publishes the satisfaction metrics of one generation pass.
func RecordGeneration(requested, placed float64) {
	SchedulesGenerated.Inc()
	if requested > 0 {
		PlacementSatisfaction.Observe(placed / requested)
		if unplaced := requested - placed; unplaced > 0 {
			UnplacedHoursTotal.Add(unplaced)
		}
	}
}
