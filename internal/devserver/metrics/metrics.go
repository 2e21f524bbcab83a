// Package metrics defines and registers all custom Prometheus metrics for
// the TaskBuddy dev server. It is the single source of truth for metric
// names, labels, and help strings. Metrics register themselves with the
// default registry at package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskbuddy"

// NotificationsDeliveredTotal counts notifications that were stored and
// pushed to their recipient.
// Label:
//   - type: the notification type (e.g. "TASK_ASSIGNED")
var NotificationsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_delivered_total",
		Help:      "Total number of notifications delivered, by type.",
	},
	[]string{"type"},
)

// NotificationsQueueDepth tracks the current number of notifications waiting
// in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// WSConnectionsActive tracks the number of live WebSocket notification
// connections across all users.
var WSConnectionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_connections_active",
		Help:      "Current number of open WebSocket notification connections.",
	},
)

// WSPushErrorsTotal counts frames that failed to write to a connection.
var WSPushErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ws_push_errors_total",
		Help:      "Total number of WebSocket frames that failed to send.",
	},
)
