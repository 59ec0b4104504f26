package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModelName = "gemini-1.5-flash"

// GeminiGenerator implements Generator over the Gemini API.
type GeminiGenerator struct {
	model *genai.GenerativeModel
}

// NewGeminiGenerator initializes the Gemini client. Returns nil (not an
// error) when no API key is configured: LLM features degrade gracefully
// instead of blocking startup.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if apiKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, AI features disabled")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	log.Println("Gemini client initialized")
	return &GeminiGenerator{model: client.GenerativeModel(geminiModelName)}, nil
}

// Generate performs a single generation call and concatenates the text
// parts of every candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("API returned no candidates")
	}

	var out string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
	}
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
