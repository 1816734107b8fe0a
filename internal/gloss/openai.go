package gloss

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultOpenAIModel = "gpt-5-mini"

// implements Glosser using OpenAI Chat Completions
type OpenAIGlosser struct {
	client  openai.Client
	model   string
	options Options
}

func NewOpenAIGlosser(apiKey string, opts Options) (*OpenAIGlosser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIGlosser{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		options: opts,
	}, nil
}

func (g *OpenAIGlosser) Gloss(ctx context.Context, items []Item) ([]Result, error) {
	return runBatches(ctx, items, g.options, g.glossBatch)
}

func (g *OpenAIGlosser) glossBatch(ctx context.Context, items []Item) ([]Result, error) {
	completion, err := g.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(BuildPrompt(g.options, items)),
			},
			Model: g.model,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gloss request failed: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}
	text := completion.Choices[0].Message.Content
	if text == "" {
		return nil, fmt.Errorf("no text in OpenAI response")
	}

	return parseResults(text, items)
}
