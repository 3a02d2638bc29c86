// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// XPAwarded sums XP granted for completed tasks.
	XPAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lifetrack",
			Subsystem: "xp",
			Name:      "awarded_total",
			Help:      "Total XP awarded for completed tasks",
		},
	)

	// XPRevoked sums XP taken back when a task is reopened.
	XPRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lifetrack",
			Subsystem: "xp",
			Name:      "revoked_total",
			Help:      "Total XP revoked for reopened tasks",
		},
	)

	// TasksRolledOver counts rollover moves of unfinished tasks.
	TasksRolledOver = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lifetrack",
			Subsystem: "tasks",
			Name:      "rolled_over_total",
			Help:      "Total number of task rollovers",
		},
	)

	// Redemptions counts reward redemptions.
	// Labels: result (ok, insufficient_xp, daily_limit, streak_required, unavailable, error)
	Redemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifetrack",
			Subsystem: "rewards",
			Name:      "redemptions_total",
			Help:      "Total reward redemptions by result",
		},
		[]string{"result"},
	)

	// HTTPRequests counts handled requests.
	// Labels: method, route, status
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lifetrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration tracks request latency.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lifetrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
