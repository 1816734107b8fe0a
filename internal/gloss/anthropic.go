package gloss

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// implements Glosser using Anthropic Claude
type AnthropicGlosser struct {
	client  anthropic.Client
	model   anthropic.Model
	options Options
}

func NewAnthropicGlosser(apiKey string, opts Options) (*AnthropicGlosser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicGlosser{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		options: opts,
	}, nil
}

func (g *AnthropicGlosser) Gloss(ctx context.Context, items []Item) ([]Result, error) {
	return runBatches(ctx, items, g.options, g.glossBatch)
}

func (g *AnthropicGlosser) glossBatch(ctx context.Context, items []Item) ([]Result, error) {
	message, err := g.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     g.model,
			MaxTokens: 4096,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(BuildPrompt(g.options, items)),
				),
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gloss request failed: %w", err)
	}

	if message == nil || len(message.Content) == 0 {
		return nil, fmt.Errorf("empty response from Anthropic")
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text in Anthropic response")
	}

	return parseResults(text, items)
}
