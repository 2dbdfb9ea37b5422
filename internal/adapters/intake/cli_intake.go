package intake

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/ports"
)

// maxLineSize bounds a single JSON-lines record
const maxLineSize = 1 << 20

// Processor is the part of the integrity service the intake drives
type Processor interface {
	Process(ctx context.Context, s *core.Submission) (*core.Outcome, error)
}

// CliIntake implements a command-line interface for engagement verification
type CliIntake struct {
	service    Processor
	logger     *zap.Logger
	out        io.Writer
	verbose    bool
	jsonOutput bool
}

// NewCliIntake creates a new CLI intake writing reports to out
func NewCliIntake(service Processor, logger *zap.Logger, out io.Writer, verbose bool, jsonOutput bool) (*CliIntake, error) {
	return &CliIntake{
		service:    service,
		logger:     logger,
		out:        out,
		verbose:    verbose,
		jsonOutput: jsonOutput,
	}, nil
}

// ProcessSubmission processes a submission and displays the outcome
func (f *CliIntake) ProcessSubmission(ctx context.Context, s *core.Submission) (*core.Outcome, error) {
	f.logger.Debug("Processing submission",
		zap.String("user_id", s.UserID),
		zap.String("raid_id", s.RaidID))

	startTime := time.Now()
	outcome, err := f.service.Process(ctx, s)
	if err != nil {
		f.logger.Error("Failed to process submission", zap.Error(err))
		return nil, err
	}
	duration := time.Since(startTime)

	if f.jsonOutput {
		if err := json.NewEncoder(f.out).Encode(outcome); err != nil {
			return nil, fmt.Errorf("failed to write outcome: %w", err)
		}
		return outcome, nil
	}

	fmt.Fprintf(f.out, "\n=== Submission %s ===\n", outcome.SubmissionID)
	fmt.Fprintf(f.out, "User: %s\n", s.UserID)
	fmt.Fprintf(f.out, "Raid: %s\n", s.RaidID)
	if s.ActionType != "" {
		fmt.Fprintf(f.out, "Action: %s\n", s.ActionType)
	}

	fmt.Fprintf(f.out, "\n=== Decision ===\n")
	fmt.Fprintf(f.out, "Verdict: %s\n", outcome.Decision.Verdict)
	fmt.Fprintf(f.out, "Trust score: %.4f\n", outcome.Decision.TrustScore)
	fmt.Fprintf(f.out, "User message: %s\n", outcome.UserMessage)

	if f.verbose || outcome.Decision.Verdict != core.VerdictAdmit {
		fmt.Fprintf(f.out, "\n=== Moderator view ===\n%s\n", outcome.ModeratorSummary)
	}

	if note := outcome.ReviewNote; note != nil {
		fmt.Fprintf(f.out, "\n=== Review note ===\n")
		fmt.Fprintf(f.out, "Summary: %s\n", note.Summary)
		fmt.Fprintf(f.out, "Recommended action: %s\n", note.RecommendedAction)
		fmt.Fprintf(f.out, "Confidence: %.4f\n", note.Confidence)
		fmt.Fprintf(f.out, "Model used: %s\n", note.ModelUsed)
	}

	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return outcome, nil
}

// ProcessStream reads one JSON submission, or JSON lines when jsonl is set.
// Bad lines are counted and skipped; only read failures abort the stream.
func (f *CliIntake) ProcessStream(ctx context.Context, r io.Reader, jsonl bool) (*ports.BatchSummary, error) {
	summary := ports.NewBatchSummary()

	if !jsonl {
		var s core.Submission
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode submission: %w", err)
		}
		f.tally(ctx, summary, &s)
		return summary, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		var s core.Submission
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			f.logger.Warn("Skipping undecodable submission", zap.Int("line", line), zap.Error(err))
			summary.Total++
			summary.Invalid++
			continue
		}
		f.tally(ctx, summary, &s)
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("failed to read submissions: %w", err)
	}

	f.logger.Info("Batch processed",
		zap.Int("total", summary.Total),
		zap.Int("admit", summary.Verdict[core.VerdictAdmit]),
		zap.Int("flag", summary.Verdict[core.VerdictFlag]),
		zap.Int("reject", summary.Verdict[core.VerdictReject]),
		zap.Int("invalid", summary.Invalid),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

func (f *CliIntake) tally(ctx context.Context, summary *ports.BatchSummary, s *core.Submission) {
	summary.Total++
	outcome, err := f.ProcessSubmission(ctx, s)
	switch {
	case errors.Is(err, core.ErrInvalidSubmission):
		summary.Invalid++
	case err != nil:
		summary.Failed++
	default:
		summary.Verdict[outcome.Decision.Verdict]++
	}
}

// Start is a no-op for the CLI intake
func (f *CliIntake) Start() error {
	return nil
}

// Stop is a no-op for the CLI intake
func (f *CliIntake) Stop() error {
	return nil
}
