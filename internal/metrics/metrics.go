// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BidsTotal counts bid attempts by outcome: accepted, rejected, conflict.
	BidsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbay_bids_total",
			Help: "Total number of bid attempts by outcome",
		},
		[]string{"outcome"},
	)

	// SweepItemsTotal counts items seen by the auction sweep by outcome:
	// completed or skipped.
	SweepItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbay_sweep_items_total",
			Help: "Total number of items processed by the auction sweep",
		},
		[]string{"outcome"},
	)

	// SweepDuration observes the wall time of one sweep run.
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fbay_sweep_duration_seconds",
			Help:    "Duration of auction sweep runs",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 30},
		},
	)

	// NotificationsTotal counts dispatched notifications by kind and result.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbay_notifications_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"kind", "result"},
	)
)
