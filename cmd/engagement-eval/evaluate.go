package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/ports"
)

// Evaluate command flags
var (
	evaluateFile  string
	evaluateJSONL bool
)

func newEvaluateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate engagement submissions",
		Long: `Evaluate one submission given as a JSON object, or a batch given as
JSON lines, read from a file or stdin.

Examples:
  # Evaluate a single submission
  engagement-eval evaluate --file submission.json

  # Evaluate a batch and print one JSON outcome per line
  cat submissions.jsonl | engagement-eval evaluate --jsonl --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(intake ports.SubmissionIntake, logger *zap.Logger) error {
				return runEvaluate(cmd, intake, logger)
			})
		},
	}

	cmd.Flags().StringVarP(&evaluateFile, "file", "f", "", "Input file (use stdin if not specified)")
	cmd.Flags().BoolVar(&evaluateJSONL, "jsonl", false, "Read one submission per line")

	return cmd
}

func runEvaluate(cmd *cobra.Command, intake ports.SubmissionIntake, logger *zap.Logger) error {
	var r io.Reader = cmd.InOrStdin()
	if evaluateFile != "" {
		file, err := os.Open(evaluateFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		r = file
		logger.Debug("Reading submissions from file", zap.String("file", evaluateFile))
	}

	if err := intake.Start(); err != nil {
		return err
	}
	defer intake.Stop()

	summary, err := intake.ProcessStream(cmd.Context(), r, evaluateJSONL)
	if err != nil {
		return err
	}

	if evaluateJSONL && !outputJSON {
		fmt.Fprintf(cmd.OutOrStdout(), "\nProcessed %d submissions: admit=%d flag=%d reject=%d invalid=%d failed=%d\n",
			summary.Total,
			summary.Verdict[core.VerdictAdmit],
			summary.Verdict[core.VerdictFlag],
			summary.Verdict[core.VerdictReject],
			summary.Invalid,
			summary.Failed)
	}

	if !evaluateJSONL && (summary.Invalid > 0 || summary.Failed > 0) {
		return fmt.Errorf("submission could not be evaluated")
	}
	return nil
}
