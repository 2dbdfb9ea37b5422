package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/engagement-integrity/internal/core"
	"github.com/mikey/engagement-integrity/internal/utils"
)

type stubInvoker struct {
	body    []byte
	err     error
	request map[string]interface{}
}

func (s *stubInvoker) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	if err := json.Unmarshal(params.Body, &s.request); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: s.body}, nil
}

func held() (*core.Submission, *core.AggregateDecision) {
	return &core.Submission{ID: "sub-1", UserID: "u1", RaidID: "r1", Text: "follow me"},
		&core.AggregateDecision{Verdict: core.VerdictFlag, Reasons: []string{"session_hopping"}}
}

func newTestSummarizer(modelID string, invoker *stubInvoker) *Summarizer {
	return NewSummarizer(invoker, modelID, 256, 0.1, 0.9, 1024, zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))
}

func TestSummarizeModelFamilies(t *testing.T) {
	answer := `{"summary":"Hops between raids.","recommended_action":"review","confidence":0.6}`

	fixtures := []struct {
		modelID    string
		body       interface{}
		requestKey string
	}{
		{"anthropic.claude-v2", map[string]string{"completion": "Here you go: " + answer}, "max_tokens_to_sample"},
		{"amazon.titan-text-express-v1", map[string]interface{}{"results": []map[string]string{{"outputText": answer}}}, "textGenerationConfig"},
		{"meta.llama3", map[string]string{"output": answer}, "max_tokens"},
	}

	for _, fix := range fixtures {
		body, err := json.Marshal(fix.body)
		require.NoError(t, err)
		invoker := &stubInvoker{body: body}

		sub, d := held()
		note, err := newTestSummarizer(fix.modelID, invoker).Summarize(context.Background(), sub, d)
		require.NoError(t, err, fix.modelID)
		assert.Equal(t, "Hops between raids.", note.Summary, fix.modelID)
		assert.Equal(t, "review", note.RecommendedAction, fix.modelID)
		assert.Equal(t, fix.modelID, note.ModelUsed)
		assert.Contains(t, invoker.request, fix.requestKey, fix.modelID)
	}
}

func TestSummarizeInvokeError(t *testing.T) {
	sub, d := held()
	_, err := newTestSummarizer("anthropic.claude-v2", &stubInvoker{err: errors.New("throttled")}).
		Summarize(context.Background(), sub, d)
	assert.ErrorContains(t, err, "throttled")
}

func TestSummarizeEmptyTitan(t *testing.T) {
	sub, d := held()
	_, err := newTestSummarizer("amazon.titan-text-lite-v1", &stubInvoker{body: []byte(`{"results":[]}`)}).
		Summarize(context.Background(), sub, d)
	assert.Error(t, err)
}
