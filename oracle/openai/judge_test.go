package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// stubModel is a canned llms.Model.
type stubModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (s *stubModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	s.messages = messages
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: s.reply}}}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, s, prompt, options...)
}

func newTestJudge(t *testing.T, model *stubModel) *Judge {
	t.Helper()
	cfg := oracle.NewConfig(
		oracle.WithCriteria("entity tagging F1"),
		oracle.WithComponent("a", "rule based tagger"),
	)
	judge, err := newJudge(cfg, model)
	require.NoError(t, err)
	return judge
}

func TestJudge_Score(t *testing.T) {
	model := &stubModel{reply: "```json\n{\"score\": 7.5}\n```"}
	judge := newTestJudge(t, model)

	score, err := judge.Score(context.Background(), core.MustParse("a&b"))
	require.NoError(t, err)
	assert.Equal(t, 7.5, score)

	require.Len(t, model.messages, 2)
	system := model.messages[0].Parts[0].(llms.TextContent).Text
	assert.Contains(t, system, "entity tagging F1")
	assert.Contains(t, system, "- a: rule based tagger")
	user := model.messages[1].Parts[0].(llms.TextContent).Text
	assert.Contains(t, user, "Ensemble: (a&b)")
	assert.Contains(t, user, "a: rule based tagger")
}

func TestJudge_Errors(t *testing.T) {
	tests := []struct {
		name    string
		model   *stubModel
		wantErr error
	}{
		{"transport error", &stubModel{err: errors.New("connection refused")}, nil},
		{"not json", &stubModel{reply: "I think about 7"}, oracle.ErrNoScore},
		{"missing field", &stubModel{reply: `{"rating": 7}`}, oracle.ErrNoScore},
		{"out of range", &stubModel{reply: `{"score": 11}`}, oracle.ErrScoreOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judge := newTestJudge(t, tt.model)
			_, err := judge.Score(context.Background(), core.MustParse("a"))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewJudge_InvalidConfig(t *testing.T) {
	_, err := NewJudge(oracle.NewConfig(oracle.WithModel("")))
	assert.Error(t, err)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", `{"score": 3}`, 3},
		{"fenced", "```\n{\"score\": 0.25}\n```", 0.25},
		{"missing opening quote", `{score": 4}`, 4},
		{"bare key", `{score: 6.5}`, 6.5},
		{"surrounding prose", "Here is my rating: {\"score\": 8} Hope it helps.", 8},
		{"zero", `{"score": 0}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVerdict(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
