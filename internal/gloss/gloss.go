// Package gloss translates the marks of an annotation tier with a hosted
// language model and lays the translations out as a parallel tier.
package gloss

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// single label to gloss
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// glossed label
type Result struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Glosser translates labels, keeping their indices.
type Glosser interface {
	Gloss(ctx context.Context, items []Item) ([]Result, error)
}

// language model provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider maps a provider name to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported gloss provider: %s", s)
	}
}

// APIKeyEnv is the environment variable each provider's key is read from.
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

type Options struct {
	SourceLanguage string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // labels per API request (default 50)
	Concurrency    int // parallel requests (default 3)
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return DefaultConcurrency
}

// creates Glosser based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Glosser, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderGemini:
		return NewGeminiGlosser(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAIGlosser(apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicGlosser(apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported gloss provider: %s", provider)
	}
}

// BuildPrompt creates the glossing prompt for LLM providers
func BuildPrompt(opts Options, items []Item) string {
	var sb strings.Builder

	if opts.SourceLanguage != "" {
		fmt.Fprintf(&sb,
			"Gloss the following %s annotation labels into %s.\n\n",
			opts.SourceLanguage,
			opts.TargetLanguage,
		)
	} else {
		fmt.Fprintf(&sb,
			"Gloss the following annotation labels into %s.\n\n",
			opts.TargetLanguage,
		)
	}

	sb.WriteString("Each label is one word or phrase from a time-aligned speech transcription.\n\n")
	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Give one gloss per label; never merge or split labels.\n")
	sb.WriteString("2. Keep glosses as short as the labels they translate.\n")
	sb.WriteString("3. Leave bracketed noise or silence markers like <sil> or [laugh] unchanged.\n")
	sb.WriteString("4. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("5. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("6. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("7. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the glossed JSON array only:")

	return sb.String()
}
