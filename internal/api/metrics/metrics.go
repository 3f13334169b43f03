// Package metrics defines all custom Prometheus metrics for the marketplace
// API. It is the single source of truth for metric names, labels, and help
// strings; everything is registered with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// SignInAttemptsTotal counts completed sign-in verifications.
// Label:
//   - result: "success", "invalid_nonce", "no_challenge", "invalid_signature"
var SignInAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signin_attempts_total",
		Help:      "Total number of sign-in verification attempts, by result.",
	},
	[]string{"result"},
)

// ChallengesIssuedTotal counts nonce challenges handed out.
var ChallengesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signin_challenges_issued_total",
		Help:      "Total number of sign-in nonce challenges issued.",
	},
)

// DisputesOpenedTotal counts disputes created.
var DisputesOpenedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "disputes_opened_total",
		Help:      "Total number of disputes opened.",
	},
)

// DisputesResolvedTotal counts disputes reaching a terminal status.
// Label:
//   - outcome: "resolved_buyer" or "resolved_seller"
var DisputesResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "disputes_resolved_total",
		Help:      "Total number of disputes resolved, by outcome.",
	},
	[]string{"outcome"},
)

// VotesSubmittedTotal counts accepted juror ballots, revotes included.
// Label:
//   - choice: "buyer" or "seller"
var VotesSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_submitted_total",
		Help:      "Total number of jury votes accepted, by choice.",
	},
	[]string{"choice"},
)

// VoteAggregationDuration measures one vote submission end-to-end: upsert,
// recount, and any resulting resolution.
var VoteAggregationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "vote_aggregation_duration_seconds",
		Help:      "Duration of vote upsert plus tally and resolution.",
		Buckets:   prometheus.DefBuckets,
	},
)

// EvidencePostedTotal counts evidence entries appended.
var EvidencePostedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evidence_posted_total",
		Help:      "Total number of evidence entries appended.",
	},
)

// OrdersCheckedOutTotal counts successful checkouts.
var OrdersCheckedOutTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_checked_out_total",
		Help:      "Total number of orders created at checkout.",
	},
)
