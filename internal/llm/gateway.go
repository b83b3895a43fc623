// Package llm wraps calls to the external text-generation API and turns the
// model's note-extraction output into validated note batches.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// Gateway is the single outbound primitive: send a prompt, get the first
// completion's text. No retry, no backoff; failures are terminal.
type Gateway interface {
	Generate(prompt string) (string, error)
}

type GeminiGateway struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiGateway(apiKey, model string, timeout time.Duration) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGateway{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (g *GeminiGateway) Generate(prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	part := resp.Candidates[0].Content.Parts[0]
	if part.Text == "" {
		return "", ErrEmptyResponse
	}

	return part.Text, nil
}
