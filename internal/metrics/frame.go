package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesAssembled tracks wire frames built by frame.Assemble.
	FramesAssembled = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frame",
			Name:      "assembled_total",
			Help:      "Total number of wire frames assembled",
		},
	)

	// FramesReceived tracks frames successfully opened by frame.Receive.
	FramesReceived = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frame",
			Name:      "received_total",
			Help:      "Total number of wire frames successfully received",
		},
	)

	// SignatureFailures tracks frames rejected at the ephemeral-key
	// signature check, per stage ("sign" never appears here; only the
	// check that frame.Receive performs).
	SignatureFailures = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frame",
			Name:      "signature_failures_total",
			Help:      "Total number of frames rejected for signature verification failure",
		},
	)

	// AuthFailures tracks frames rejected at AEAD decryption.
	AuthFailures = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frame",
			Name:      "auth_failures_total",
			Help:      "Total number of frames rejected for AEAD authentication failure",
		},
	)

	// ProofVerifications tracks Merkle inclusion proof outcomes.
	ProofVerifications = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frame",
			Name:      "proof_verifications_total",
			Help:      "Total number of Merkle inclusion proof verifications",
		},
		[]string{"result"}, // ok, mismatch
	)
)
