package gloss

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// implements Glosser using Google Gemini
type GeminiGlosser struct {
	client  *genai.Client
	model   string
	options Options
}

func NewGeminiGlosser(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*GeminiGlosser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiGlosser{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (g *GeminiGlosser) Gloss(ctx context.Context, items []Item) ([]Result, error) {
	return runBatches(ctx, items, g.options, g.glossBatch)
}

func (g *GeminiGlosser) glossBatch(ctx context.Context, items []Item) ([]Result, error) {
	prompt := BuildPrompt(g.options, items)

	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{genai.NewPartFromText(prompt)},
			genai.RoleUser,
		),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gloss request failed: %w", err)
	}

	text, err := geminiText(result)
	if err != nil {
		return nil, err
	}
	return parseResults(text, items)
}

// geminiText concatenates the text parts of the first candidate that has any.
func geminiText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				text += part.Text
			}
		}
		if text != "" {
			break
		}
	}

	if text == "" {
		return "", fmt.Errorf("no text in Gemini response")
	}
	return text, nil
}
