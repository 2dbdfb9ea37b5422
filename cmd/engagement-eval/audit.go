package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mikey/engagement-integrity/internal/core"
)

func newAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and maintain the audit trail",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <submission-id>",
		Short: "Show the audit record of a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(svc *core.IntegrityService) error {
				record, err := svc.AuditRecord(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printRecord(cmd.OutOrStdout(), record)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired audit records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(svc *core.IntegrityService) error {
				if err := svc.CleanupAudit(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Expired audit records removed")
				return nil
			})
		},
	})

	return cmd
}

func printRecord(w io.Writer, record *core.AuditRecord) error {
	if outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}

	fmt.Fprintf(w, "Submission: %s\n", record.SubmissionID)
	fmt.Fprintf(w, "User:       %s\n", record.UserID)
	fmt.Fprintf(w, "Raid:       %s\n", record.RaidID)
	fmt.Fprintf(w, "Evaluated:  %s\n", record.EvaluatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Expires:    %s\n", record.ExpiresAt.Format(time.RFC3339))
	fmt.Fprintf(w, "\n%s\n", record.Decision.ModeratorSummary())
	if note := record.ReviewNote; note != nil {
		fmt.Fprintf(w, "\nReview note (%s, %.2f): %s\nRecommended action: %s\n",
			note.ModelUsed, note.Confidence, note.Summary, note.RecommendedAction)
	}
	return nil
}
