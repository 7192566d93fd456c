// Package metrics defines all custom Prometheus metrics for the tracking
// API. It is the single source of truth for metric names, labels, and help
// strings; collectors register themselves with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracking"

// TrackingsCreatedTotal counts newly created trackings.
var TrackingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trackings_created_total",
		Help:      "Total number of trackings created.",
	},
)

// StatusTransitionsTotal counts applied status transitions.
// Labels:
//   - from: the status before the change
//   - to: the status after the change
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of status transitions applied, by from/to status.",
	},
	[]string{"from", "to"},
)

// LookupsTotal counts public tracking-page lookups.
// Label:
//   - result: "found" or "miss"
var LookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Total number of public tracking lookups, by result.",
	},
	[]string{"result"},
)

// DelaysAddedTotal counts admin delay adjustments.
var DelaysAddedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delays_added_total",
		Help:      "Total number of delay adjustments applied to trackings.",
	},
)

// NotificationsTotal counts status-change notification deliveries.
// Label:
//   - result: "sent", "skipped" or "error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of status-change notifications, by delivery result.",
	},
	[]string{"result"},
)
