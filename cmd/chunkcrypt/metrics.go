package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chunkproto/chunkcrypt/internal/logger"
	"github.com/chunkproto/chunkcrypt/internal/metrics"
)

var metricsAddr string

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Serve Prometheus metrics for this process's crypto and frame operations",
	Long: `serve-metrics starts a standalone HTTP server exposing this process's
registered metrics on /metrics, listening on config.MetricsConfig's addr if
--addr is unset. Only the frame assembly/receipt counters are incremented by
this CLI; the crypto primitive counters stay at zero.`,
	RunE: runServeMetrics,
}

func init() {
	rootCmd.AddCommand(serveMetricsCmd)
	serveMetricsCmd.Flags().StringVar(&metricsAddr, "addr", "", "listen address (default: config metrics.addr, or :9469)")
}

func runServeMetrics(cmd *cobra.Command, args []string) error {
	addr := metricsAddr
	if addr == "" && appConfig != nil {
		addr = appConfig.Metrics.Addr
	}
	if addr == "" {
		addr = ":9469"
	}

	log.Info("serving metrics", logger.String("addr", addr))
	fmt.Printf("serving metrics on %s\n", addr)
	return metrics.StartServer(addr)
}
