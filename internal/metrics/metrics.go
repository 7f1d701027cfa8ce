// Package metrics defines the Prometheus counters and histograms for frame
// assembly, receive, and crypto primitives. cmd/chunkcrypt increments the
// frame counters; nothing in this module increments the crypto ones. Grounded
// on the teacher's internal/metrics package (crypto.go's CryptoOperations
// counters survive nearly unchanged; the session/handshake/blockchain
// subsystems do not apply here and were dropped).
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "chunkcrypt"

// Registry is the private registry every metric in this package registers
// against, so a process embedding chunkcrypt can mount /metrics without
// colliding with its own default registry.
var Registry = prometheus.NewRegistry()
