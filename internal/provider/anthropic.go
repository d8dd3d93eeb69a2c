// Package provider constructs the Anthropic API client and selects the model.
package provider

import (
	"os"

	"github.com/anthropics/anthropic-sdk-go"
)

// DefaultModel is used when ANTHROPIC_MODEL is unset.
const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

// NewAnthropicClient returns a client configured from the environment
// (ANTHROPIC_API_KEY via the SDK's default option chain).
func NewAnthropicClient() *anthropic.Client {
	c := anthropic.NewClient()
	return &c
}

// ModelFromEnv returns the model named by ANTHROPIC_MODEL, or DefaultModel.
func ModelFromEnv() anthropic.Model {
	if m := os.Getenv("ANTHROPIC_MODEL"); m != "" {
		return anthropic.Model(m)
	}
	return DefaultModel
}
