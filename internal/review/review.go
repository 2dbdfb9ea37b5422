// Package review builds moderator review prompts for held submissions and
// parses the model's answer. The model never decides the verdict.
package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/utils"
)

// SystemPrompt is sent as the system role where the provider supports one
const SystemPrompt = "You assist community moderators reviewing raid engagement claims. Respond only with JSON."

const promptFormat = `A raid engagement claim was held for review by an automated integrity check.
Summarize for a moderator why it was held and recommend an action.
Respond with a JSON object containing:
- summary: string (two sentences at most)
- recommended_action: one of "admit", "reject", "review"
- confidence: number between 0 and 1

Claim:
User: %s
Raid: %s
Action: %s
Evidence provided: %t
Decision: %s

Evaluator findings:
%s
Raided post:
%s

User text:
%s

Respond only with the JSON object and nothing else.`

// Actions a model may recommend
const (
	ActionAdmit  = "admit"
	ActionReject = "reject"
	ActionReview = "review"
)

// ErrNoJSON is returned when a model answer carries no JSON object
var ErrNoJSON = errors.New("no JSON object in model response")

// Response is the structured answer expected from the model
type Response struct {
	Summary           string  `json:"summary"`
	RecommendedAction string  `json:"recommended_action"`
	Confidence        float64 `json:"confidence"`
}

// BuildPrompt renders the review prompt. User supplied text is sanitized and
// truncated to maxTextSize bytes first.
func BuildPrompt(tp *utils.TextProcessor, s *core.Submission, d *core.AggregateDecision, maxTextSize int) string {
	var findings strings.Builder
	for _, r := range d.ContributingResults {
		fmt.Fprintf(&findings, "- %s: score %.2f", r.Kind, r.Score)
		if len(r.Indicators) > 0 {
			fmt.Fprintf(&findings, ", indicators: %s", strings.Join(r.Indicators, ", "))
		}
		findings.WriteString("\n")
	}

	decision := string(d.Verdict)
	if len(d.Reasons) > 0 {
		decision += " (" + strings.Join(d.Reasons, ", ") + ")"
	}

	action := string(s.ActionType)
	if action == "" {
		action = "unspecified"
	}

	return fmt.Sprintf(promptFormat,
		tp.SanitizeUTF8(s.UserID),
		tp.SanitizeUTF8(s.RaidID),
		action,
		s.Evidence.Provided(),
		decision,
		findings.String(),
		tp.ProcessText(s.TargetContent, maxTextSize),
		tp.ProcessText(s.Text, maxTextSize),
	)
}

// ParseResponse extracts the JSON answer from a model reply, tolerating
// prose or code fences around the object
func ParseResponse(text string) (*Response, error) {
	var resp Response
	if err := json.Unmarshal([]byte(text), &resp); err == nil {
		return resp.normalize(), nil
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return nil, ErrNoJSON
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return resp.normalize(), nil
}

func (r *Response) normalize() *Response {
	switch action := strings.ToLower(strings.TrimSpace(r.RecommendedAction)); action {
	case ActionAdmit, ActionReject:
		r.RecommendedAction = action
	default:
		r.RecommendedAction = ActionReview
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	r.Summary = strings.TrimSpace(r.Summary)
	return r
}

// Note converts a parsed response into a moderator note
func (r *Response) Note(model string, at time.Time) *core.ReviewNote {
	return &core.ReviewNote{
		Summary:           r.Summary,
		RecommendedAction: r.RecommendedAction,
		Confidence:        r.Confidence,
		ModelUsed:         model,
		GeneratedAt:       at,
	}
}
