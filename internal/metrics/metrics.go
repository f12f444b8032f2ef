package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgelogic_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})

	InsightsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lodgelogic_insights_duration_seconds",
		Help:    "Time to compute an insights report",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})

	InsightsFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgelogic_insights_failures_total",
		Help: "Insights reports that failed to compute",
	}, []string{"report"})

	BookingEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgelogic_booking_events_total",
		Help: "Booking lifecycle events handled by the counter worker",
	}, []string{"outcome"})

	DestinationsCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgelogic_destinations_cache_total",
		Help: "Destination directory cache lookups",
	}, []string{"result"})

	SnapshotsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodgelogic_snapshots_written_total",
		Help: "Daily analytics snapshots written",
	})

	ReconciliationRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodgelogic_reconciliation_runs_total",
		Help: "Total hotel counter reconciliation runs",
	})

	ReconciliationFixesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodgelogic_reconciliation_fixes_total",
		Help: "Hotels whose stored counters were corrected",
	})
)
