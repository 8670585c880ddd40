// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/ensemble/core"
	"github.com/poiesic/ensemble/oracle"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Judge implements oracle.Scorer by asking a chat model to rate an ensemble.
type Judge struct {
	client llms.Model
	config *oracle.Config
	system string
	logger *slog.Logger
}

var _ oracle.Scorer = (*Judge)(nil)

// verdict is the JSON shape expected from the model.
type verdict struct {
	Score *float64 `json:"score"`
}

// newJudge is an internal constructor that returns the concrete type.
func newJudge(config *oracle.Config, client llms.Model) (*Judge, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Judge{
		client: client,
		config: config,
		system: buildSystemPrompt(config),
		logger: slog.Default().With("component", "openai-judge"),
	}, nil
}

// NewJudge creates a new LLM judge using the provided configuration.
//
// Returns oracle.Scorer interface to enforce abstraction.
func NewJudge(config *oracle.Config) (oracle.Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}
	return newJudge(config, client)
}

// Score asks the model for a rating of e. The judge makes a single call;
// malformed or out-of-range answers are returned as errors.
func (j *Judge) Score(ctx context.Context, e core.Expression) (float64, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(j.system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildUserPrompt(e, j.config.Components))},
		},
	}

	response, err := j.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		j.logger.Error("failed to generate content", "expr", e.String(), "err", err)
		return 0, err
	}
	if len(response.Choices) < 1 {
		return 0, fmt.Errorf("%w: no choices for %s", oracle.ErrNoScore, e)
	}

	score, err := parseVerdict(response.Choices[0].Content)
	if err != nil {
		j.logger.Warn("error parsing judge response", "expr", e.String(), "response", response.Choices[0].Content, "err", err)
		return 0, err
	}
	if score < j.config.MinScore || score > j.config.MaxScore {
		return 0, fmt.Errorf("%w: %v not in [%v, %v]", oracle.ErrScoreOutOfRange, score, j.config.MinScore, j.config.MaxScore)
	}

	j.logger.Debug("judged ensemble", "expr", e.String(), "score", score)
	return score, nil
}

// parseVerdict extracts the score from a model response.
func parseVerdict(text string) (float64, error) {
	text = repairJSON(stripFences(text))

	var v verdict
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return 0, fmt.Errorf("%w: %w", oracle.ErrNoScore, err)
	}
	if v.Score == nil {
		return 0, fmt.Errorf("%w: response has no score field", oracle.ErrNoScore)
	}
	return *v.Score, nil
}
