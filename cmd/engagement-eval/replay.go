package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mikey/engagement-integrity/internal/core"
)

func newReplayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <submission-id>",
		Short: "Re-run a stored submission and compare decisions",
		Long: `Replay loads a submission from the audit store, evaluates it again at its
original evaluation time and reports whether the decision is unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(svc *core.IntegrityService) error {
				result, err := svc.Replay(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := printReplay(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if !result.Matches {
					return fmt.Errorf("replayed decision for %s differs from the stored one", args[0])
				}
				return nil
			})
		},
	}
}

func printReplay(w io.Writer, result *core.ReplayResult) error {
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "Submission: %s\n", result.SubmissionID)
	fmt.Fprintf(w, "Stored:     %s (trust %.4f)\n", result.Stored.Verdict, result.Stored.TrustScore)
	fmt.Fprintf(w, "Recomputed: %s (trust %.4f)\n", result.Recomputed.Verdict, result.Recomputed.TrustScore)
	fmt.Fprintf(w, "Matches:    %t\n", result.Matches)
	if verbose {
		fmt.Fprintf(w, "\n%s\n", result.Recomputed.ModeratorSummary())
	}
	return nil
}
