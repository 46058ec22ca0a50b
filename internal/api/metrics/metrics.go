// Package metrics defines all custom Prometheus metrics for the consultation
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics self-register via promauto on first import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "consultation"

// ── Case metrics ──────────────────────────────────────────────────────────────

// CasesCreatedTotal counts newly created cases.
// Label:
//   - status: the initial status ("draft" unless set explicitly)
var CasesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cases_created_total",
		Help:      "Total number of consultation cases created, by initial status.",
	},
	[]string{"status"},
)

// StatusTransitionsTotal counts accepted status transitions.
// Labels:
//   - from: the previous case status
//   - to: the new case status
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Total number of accepted case status transitions.",
	},
	[]string{"from", "to"},
)

// ── Call metrics ──────────────────────────────────────────────────────────────

// CallsStartedTotal counts successfully issued call sessions.
var CallsStartedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_started_total",
		Help:      "Total number of call sessions started.",
	},
)

// CallTokenErrorsTotal counts failures while issuing a room credential.
// Label:
//   - reason: "configuration" (missing media-service credentials) or
//     "mint_failed" (token signing failed)
var CallTokenErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "call_token_errors_total",
		Help:      "Total number of room credential failures, by reason.",
	},
	[]string{"reason"},
)

// CallStartDuration measures how long a call-start request takes end-to-end,
// from case lookup to token issue.
var CallStartDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "call_start_duration_seconds",
		Help:      "Duration of call session initiation.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
