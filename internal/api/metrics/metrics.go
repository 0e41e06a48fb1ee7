// Package metrics defines and registers all custom Prometheus metrics for the
// NFT store API. It is the single source of truth for metric names, labels,
// and help strings; metrics register with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nftstore"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts account registrations.
// Label:
//   - result: "success" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Asset metrics ─────────────────────────────────────────────────────────────

// AssetsCreatedTotal counts NFT asset records created through uploads.
var AssetsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assets_created_total",
		Help:      "Total number of NFT asset records created.",
	},
)

// ── Mint metrics ──────────────────────────────────────────────────────────────

// MintsTotal counts mint submissions.
// Label:
//   - result: "success" or "error"
var MintsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mints_total",
		Help:      "Total number of mint submissions, by result.",
	},
	[]string{"result"},
)

// MintDuration measures a mint submission end-to-end: from enqueue until the
// provider hands back a receipt. Broadcast waits dominate, so buckets skew
// long compared to the HTTP defaults.
var MintDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mint_duration_seconds",
		Help:      "Duration of mint submissions from enqueue to receipt.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	},
)

// MintQueueDepth tracks mint submissions waiting on the single-writer queue.
var MintQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mint_queue_depth",
		Help:      "Current number of mint submissions pending in the serializer queue.",
	},
)
