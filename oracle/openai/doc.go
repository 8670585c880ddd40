// Package openai implements oracle.Scorer as an LLM judge over any
// OpenAI-compatible chat completion API, using langchaingo.
package openai
