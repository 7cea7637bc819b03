// Package metrics defines and registers all custom Prometheus metrics
// for the popup service. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "popup"

// VerifyTotal counts license verification decisions.
// Label:
//   - status: "active" or "inactive"
var VerifyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verify_total",
		Help:      "Total number of license verification decisions, by status.",
	},
	[]string{"status"},
)

// LeadsTotal counts lead submission outcomes.
// Label:
//   - outcome: "accepted", "duplicate", or the rejection reason
//     ("missing_fields", "inactive_client", "domain_mismatch", "free_limit_reached")
var LeadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leads_total",
		Help:      "Total number of lead submissions, by terminal outcome.",
	},
	[]string{"outcome"},
)

// LeadSubmitDuration measures the end-to-end latency of one lead
// submission, including the sink append.
var LeadSubmitDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lead_submit_duration_seconds",
		Help:      "Duration of lead submission handling from decode to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)

// DirectoryRefreshTotal counts client directory snapshot refreshes.
// Label:
//   - result: "ok" or "error"
var DirectoryRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_refresh_total",
		Help:      "Total number of client directory snapshot refreshes, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by the public rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429 by the rate limiter.",
	},
)
