// Package metrics defines all Prometheus metrics for lumen-dhcpc.
// All metrics use the "lumen_dhcpc_" prefix.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lumen_dhcpc"

// --- Message Metrics ---

var (
	// MessagesReceived counts replies that decoded cleanly, by message type.
	MessagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_received_total",
		Help:      "Total DHCP replies decoded successfully, by message type.",
	}, []string{"msg_type"})

	// MessagesSent counts requests sent to servers, by message type.
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total DHCP messages sent, by message type.",
	}, []string{"msg_type"})

	// DecodeErrors counts datagrams rejected by the decoder, by error kind.
	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decode_errors_total",
		Help:      "Total datagrams rejected by the decoder, by error kind.",
	}, []string{"kind"})

	// DiscardedReplies counts well-formed replies dropped for not
	// matching the outstanding transaction.
	DiscardedReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discarded_replies_total",
		Help:      "Total valid replies discarded, by reason (xid_mismatch, chaddr_mismatch, unexpected_type).",
	}, []string{"reason"})
)

// --- State Machine Metrics ---

var (
	// StateTransitions counts client state machine transitions.
	StateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "state_transitions_total",
		Help:      "Total client state machine transitions.",
	}, []string{"from", "to"})

	// AcquisitionDuration tracks time from first DISCOVER to BOUND.
	AcquisitionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "acquisition_duration_seconds",
		Help:      "Time from first DISCOVER to BOUND in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	})

	// Retransmissions counts timed-out requests that were resent.
	Retransmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retransmissions_total",
		Help:      "Total retransmitted requests, by message type.",
	}, []string{"msg_type"})
)

// --- Lease Metrics ---

var (
	// LeaseAcquisitions counts successful lease acquisitions.
	LeaseAcquisitions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lease_acquisitions_total",
		Help:      "Total successful lease acquisitions.",
	})

	// LeaseRenewals counts successful lease renewals.
	LeaseRenewals = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lease_renewals_total",
		Help:      "Total successful lease renewals.",
	})

	// LeaseExpirySeconds is the absolute expiry time of the current lease.
	LeaseExpirySeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lease_expiry_timestamp_seconds",
		Help:      "Unix time at which the current lease expires, 0 when unbound.",
	})
)

// --- DNS Check Metrics ---

var (
	// DNSProbes counts post-bind probes of lease-provided DNS servers.
	DNSProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dns_probes_total",
		Help:      "Total DNS server probes, by result (ok, error, timeout).",
	}, []string{"result"})

	// DNSProbeDuration tracks DNS probe latency.
	DNSProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dns_probe_duration_seconds",
		Help:      "DNS server probe duration in seconds.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
	})
)
