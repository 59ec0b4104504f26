// Package service holds the explanation orchestrator: it turns a user
// question plus client-resent retrieval context into a single LLM call
// with bounded retries, and maps provider failures to fixed user-facing
// messages. Every call is stateless and independent.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"caselens-backend/models"
)

const (
	maxRetries     = 3
	initialBackoff = time.Second
)

var (
	ErrNotConfigured = errors.New("LLM client not configured")
	ErrEmptyResponse = errors.New("provider returned empty content")
)

// Fixed user-facing messages. The chat flow distinguishes degraded states
// (answers) from failures (errors); only the latter surface as HTTP 500.
const (
	MsgUnavailable = "AI service is temporarily unavailable. Please try again later or use the search functionality to find relevant legal cases."
	MsgNoContext   = "I can help explain legal concepts in simple terms, but I need some context from legal cases to provide accurate information. Please use the main search form first to find relevant cases, then ask me specific questions about them."
	MsgGreeting    = "Hello! I'm your legal assistant. I can help explain your uploaded legal documents in plain language. Please upload a document first using the main form, then ask me specific questions about it. For example: 'What does this mean?', 'Give me a structured summary', or 'Explain this in simple terms'."

	MsgQuotaExceeded   = "QUOTA EXCEEDED: The AI provider's usage limit has been reached. Please try again once the quota resets."
	MsgCredentialIssue = "API KEY ISSUE: The configured AI credential is invalid or lacks the required permissions."
	MsgGenericFailure  = "AI service error: the provider did not return a response after repeated attempts."
)

// greetings are the questions answered with the canned greeting when no
// context is present. Matched against the lowercased, trimmed question.
var greetings = map[string]bool{
	"hi":              true,
	"hello":           true,
	"hey":             true,
	"help":            true,
	"what can you do": true,
}

// Generator is a single fallible LLM call. The production implementation
// wraps the Gemini client; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ExplainService orchestrates retrieval-augmented explanation calls.
type ExplainService struct {
	generator Generator
	backoff   time.Duration
}

// ExplainServiceOption is a functional option for ExplainService.
type ExplainServiceOption func(*ExplainService)

// ExplainWithGenerator sets the LLM generator. A nil generator leaves the
// service in a degraded but functional state.
func ExplainWithGenerator(g Generator) ExplainServiceOption {
	return func(s *ExplainService) {
		s.generator = g
	}
}

// NewExplainService creates a new explanation service.
func NewExplainService(opts ...ExplainServiceOption) *ExplainService {
	s := &ExplainService{backoff: initialBackoff}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether an LLM generator is configured.
func (s *ExplainService) Available() bool {
	return s.generator != nil
}

// IsGreeting reports whether a question gets the canned greeting when no
// context is present.
func IsGreeting(question string) bool {
	return greetings[strings.ToLower(strings.TrimSpace(question))]
}

// Explain answers a question against the provided retrieval context.
// Exactly one of the result's Answer or Err is set.
func (s *ExplainService) Explain(ctx context.Context, question string, chunks []models.ContextChunk) models.ExplanationResult {
	if s.generator == nil {
		// Never reaches the provider.
		return models.ExplanationResult{Err: MsgUnavailable}
	}

	// An unanswerable-without-context question is a conversational state,
	// not a failure.
	if len(chunks) == 0 {
		if IsGreeting(question) {
			return models.ExplanationResult{Answer: MsgGreeting}
		}
		return models.ExplanationResult{Answer: MsgNoContext}
	}

	kind := ClassifyQuestion(question)
	log.Printf("answering with %s prompt template over %d context chunks", kind, len(chunks))
	prompt := BuildPrompt(kind, chunks, question)

	answer, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		return models.ExplanationResult{Err: classifyProviderError(err)}
	}

	return models.ExplanationResult{
		Answer:  strings.TrimSpace(answer),
		Sources: sourcesOf(chunks),
	}
}

// TestConnection invokes the provider with a fixed diagnostic prompt.
func (s *ExplainService) TestConnection(ctx context.Context) (string, error) {
	if s.generator == nil {
		return "", ErrNotConfigured
	}
	resp, err := s.generator.Generate(ctx, "Hello, can you respond with 'API test successful'?")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// generateWithRetry makes up to maxRetries attempts with doubling backoff.
// Error-kind classification happens once, after retries are exhausted.
func (s *ExplainService) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	backoff := s.backoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		answer, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		if strings.TrimSpace(answer) == "" {
			lastErr = ErrEmptyResponse
			continue
		}
		return answer, nil
	}
	return "", lastErr
}

// classifyProviderError maps a provider error to a fixed user-facing
// message by substring matching on the error text.
func classifyProviderError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "429"):
		return MsgQuotaExceeded
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "permission") || strings.Contains(msg, "credential"):
		return MsgCredentialIssue
	default:
		return MsgGenericFailure
	}
}

// sourcesOf lists the case names present in the input context.
func sourcesOf(chunks []models.ContextChunk) []string {
	sources := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Case != "" {
			sources = append(sources, chunk.Case)
		}
	}
	return sources
}
