// Command engagement-eval verifies raid engagement claims from the command line
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/di"
)

// Global flags
var (
	cfgFile        string
	verbose        bool
	jsonLog        bool
	outputJSON     bool
	auditType      string
	reviewProvider string
	metricsAddr    string
)

var rootCmd = &cobra.Command{
	Use:   "engagement-eval",
	Short: "Verify raid engagement claims",
	Long: `engagement-eval scores engagement claims submitted by raid participants
and decides whether to admit, flag or reject them.

Every submission runs through five evaluators (content relevance, spam,
engagement fraud, participation consistency and engagement quality), whose
results are fused into one verdict and a trust score.

Replay and audit commands need a persistent audit store:
  engagement-eval --audit-type sqlite replay <submission-id>`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging and output")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().StringVar(&auditType, "audit-type", "", "Audit store (memory, sqlite, mysql, redis)")
	rootCmd.PersistentFlags().StringVar(&reviewProvider, "review-provider", "", "Review note provider (none, bedrock, gemini, openai)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	rootCmd.AddCommand(newEvaluateCommand())
	rootCmd.AddCommand(newReplayCommand())
	rootCmd.AddCommand(newAuditCommand())
}

// withContainer builds the container from the global flags and invokes fn
func withContainer(fn interface{}) error {
	container, err := di.BuildContainer(&di.Options{
		ConfigFile:     cfgFile,
		Verbose:        verbose,
		JSONLog:        jsonLog,
		JSONOutput:     outputJSON,
		AuditType:      auditType,
		ReviewProvider: reviewProvider,
		Out:            os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	if metricsAddr != "" {
		if err := container.Invoke(serveMetrics); err != nil {
			return err
		}
	}
	defer func() {
		_ = container.Invoke(func(shutdown *di.Shutdown, logger *zap.Logger) {
			shutdown.Run()
			_ = logger.Sync()
		})
	}()

	return container.Invoke(fn)
}

func serveMetrics(logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Info("Serving metrics", zap.String("address", metricsAddr))
		if err := http.ListenAndServe(metricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
