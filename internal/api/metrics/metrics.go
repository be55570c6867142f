// Package metrics defines and registers all custom Prometheus metrics for the
// decree portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "decree_portal"

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityRecordedTotal counts activity entries stored successfully.
// Label:
//   - action: the activity action (e.g. "RECHERCHE", "TELECHARGEMENT")
var ActivityRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_recorded_total",
		Help:      "Total number of activity log entries recorded.",
	},
	[]string{"action"},
)

// ActivityErrorsTotal counts activity entries that could not be stored.
// Label:
//   - reason: "record_failed" or "queue_full"
var ActivityErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_errors_total",
		Help:      "Total number of activity log entries that were lost.",
	},
	[]string{"reason"},
)

// ActivityQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityProcessingDuration measures how long storing one entry takes.
// Label:
//   - action: the activity action, or "error" on failure
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity recording from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// ── Decree metrics ────────────────────────────────────────────────────────────

// DecreeImportsTotal counts import attempts.
// Label:
//   - result: "success", "invalid_roster", "duplicate", "in_progress" or "error"
var DecreeImportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decree_imports_total",
		Help:      "Total number of decree imports, by result.",
	},
	[]string{"result"},
)

// AssignmentsImportedTotal counts roster rows stored by successful imports.
var AssignmentsImportedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_imported_total",
		Help:      "Total number of assignment rows imported.",
	},
)

// DecreeTransitionsTotal counts lifecycle changes.
// Label:
//   - status: the status reached ("PUBLIE" or "ARCHIVE")
var DecreeTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decree_transitions_total",
		Help:      "Total number of decree status transitions, by target status.",
	},
	[]string{"status"},
)

// PDFDownloadsTotal counts decree PDFs served.
// Label:
//   - audience: "public" or "admin"
var PDFDownloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pdf_downloads_total",
		Help:      "Total number of decree PDF downloads.",
	},
	[]string{"audience"},
)
