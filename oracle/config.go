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


package oracle

import (
	"errors"
	"maps"
	"strings"
)

// Config holds configuration for an LLM judge oracle.
type Config struct {
	// Host is the base URL for the chat completion API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	Host string

	// Model is the model identifier used to judge ensembles.
	// Example: "qwen2.5:7b", "gpt-4o-mini"
	Model string

	// Token is the API token. Local OpenAI-compatible servers accept any value.
	Token string

	// Criteria describes the task the ensemble is judged on.
	// Example: "named entity recognition F1 on news text"
	Criteria string

	// Components maps leaf names to a short description of each component.
	// Names without a description are presented to the judge by name only.
	Components map[string]string

	// MinScore and MaxScore bound the judge's scale.
	// Default: 0 and 10
	MinScore float64
	MaxScore float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat API host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the judge model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithCriteria sets the task description shown to the judge.
func WithCriteria(criteria string) ConfigOption {
	return func(c *Config) {
		c.Criteria = criteria
	}
}

// WithComponent describes a single leaf for the judge.
func WithComponent(name, description string) ConfigOption {
	return func(c *Config) {
		if c.Components == nil {
			c.Components = make(map[string]string)
		}
		c.Components[name] = description
	}
}

// WithComponents merges descriptions for several leaves.
func WithComponents(descriptions map[string]string) ConfigOption {
	return func(c *Config) {
		if c.Components == nil {
			c.Components = make(map[string]string, len(descriptions))
		}
		maps.Copy(c.Components, descriptions)
	}
}

// WithScoreRange sets the judge's scale.
func WithScoreRange(min, max float64) ConfigOption {
	return func(c *Config) {
		c.MinScore = min
		c.MaxScore = max
	}
}

// DefaultConfig returns a Config with sensible defaults for a local OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:     "http://localhost:11434/v1",
		Model:    "qwen2.5:7b",
		Token:    "none",
		Criteria: "overall output quality",
		MinScore: 0,
		MaxScore: 10,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithModel("gpt-4o-mini"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
	if c.Token == "" {
		c.Token = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("oracle config: Host is required")
	}
	if c.Model == "" {
		return errors.New("oracle config: Model is required")
	}
	if c.Criteria == "" {
		return errors.New("oracle config: Criteria is required")
	}
	if !(c.MinScore < c.MaxScore) {
		return errors.New("oracle config: MinScore must be less than MaxScore")
	}
	return nil
}
