package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"caselens-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error
	failures int // error this many times before succeeding
	calls    int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil && (f.failures == 0 || f.calls <= f.failures) {
		return "", f.err
	}
	return f.response, nil
}

func newTestService(g Generator) *ExplainService {
	s := NewExplainService(ExplainWithGenerator(g))
	s.backoff = time.Millisecond
	return s
}

func testChunks() []models.ContextChunk {
	return []models.ContextChunk{
		{Case: "State v Sharma", FullText: "The appellant was convicted under section 302."},
		{Case: "Union v Mehta", Preview: "The High Court set aside the award."},
	}
}

func TestExplain_NoGenerator(t *testing.T) {
	s := NewExplainService()

	result := s.Explain(context.Background(), "what happened?", testChunks())
	assert.True(t, result.Failed())
	assert.Equal(t, MsgUnavailable, result.Err)
	assert.Empty(t, result.Answer)
}

func TestExplain_NoContextIsAnAnswerNotAnError(t *testing.T) {
	gen := &fakeGenerator{response: "should never be called"}
	s := newTestService(gen)

	result := s.Explain(context.Background(), "what is section 302?", nil)
	assert.False(t, result.Failed())
	assert.Equal(t, MsgNoContext, result.Answer)
	assert.Zero(t, gen.calls)

	result = s.Explain(context.Background(), "hello", nil)
	assert.False(t, result.Failed())
	assert.Equal(t, MsgGreeting, result.Answer)
	assert.Zero(t, gen.calls)
}

func TestIsGreeting(t *testing.T) {
	assert.True(t, IsGreeting("hello"))
	assert.True(t, IsGreeting("  Hi  "))
	assert.True(t, IsGreeting("What can you do"))
	assert.False(t, IsGreeting("what is section 302?"))
	assert.False(t, IsGreeting("hello there"))
}

func TestExplain_Success(t *testing.T) {
	gen := &fakeGenerator{response: "  The case concerned a murder conviction.  "}
	s := newTestService(gen)

	result := s.Explain(context.Background(), "what happened?", testChunks())
	require.False(t, result.Failed())
	assert.Equal(t, "The case concerned a murder conviction.", result.Answer)
	assert.Equal(t, []string{"State v Sharma", "Union v Mehta"}, result.Sources)
	assert.Equal(t, 1, gen.calls)
}

func TestExplain_RetriesThenSucceeds(t *testing.T) {
	gen := &fakeGenerator{response: "answer", err: errors.New("transient"), failures: 2}
	s := newTestService(gen)

	result := s.Explain(context.Background(), "what happened?", testChunks())
	require.False(t, result.Failed())
	assert.Equal(t, "answer", result.Answer)
	assert.Equal(t, 3, gen.calls)
}

func TestExplain_ErrorClassificationAfterRetries(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"quota", errors.New("429 RESOURCE_EXHAUSTED: quota exceeded"), MsgQuotaExceeded},
		{"credential", errors.New("API key not valid"), MsgCredentialIssue},
		{"permission", errors.New("PERMISSION_DENIED"), MsgCredentialIssue},
		{"generic", errors.New("connection reset by peer"), MsgGenericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{err: tt.err}
			s := newTestService(gen)

			result := s.Explain(context.Background(), "what happened?", testChunks())
			assert.True(t, result.Failed())
			assert.Equal(t, tt.want, result.Err)
			assert.Equal(t, maxRetries, gen.calls)
		})
	}
}

func TestClassifyQuestion(t *testing.T) {
	assert.Equal(t, PromptStructured, ClassifyQuestion("Give a structured summary of this case"))
	assert.Equal(t, PromptStructured, ClassifyQuestion("what did the Supreme Court decide?"))
	assert.Equal(t, PromptLayman, ClassifyQuestion("Explain in simple terms please"))
	assert.Equal(t, PromptLayman, ClassifyQuestion("explain it in PLAIN ENGLISH"))
	assert.Equal(t, PromptDefault, ClassifyQuestion("what is the holding?"))
}

func TestBuildPrompt_BoundsAndTagsChunks(t *testing.T) {
	long := strings.Repeat("x", 1500)
	chunks := []models.ContextChunk{
		{Case: "Big Case", FullText: long},
		{Case: "", Preview: "short text"},
	}

	prompt := BuildPrompt(PromptDefault, chunks, "what happened?")

	assert.Contains(t, prompt, "[Source: Big Case] "+strings.Repeat("x", 1000))
	assert.NotContains(t, prompt, strings.Repeat("x", 1001))
	assert.Contains(t, prompt, "[Source: Unknown Case] short text")
	assert.Contains(t, prompt, "what happened?")
}

func TestBuildPrompt_BoundsChunksAtRuneBoundaries(t *testing.T) {
	chunks := []models.ContextChunk{{Case: "C", FullText: strings.Repeat("§", 1200)}}

	prompt := BuildPrompt(PromptDefault, chunks, "q")

	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, strings.Repeat("§", 1000))
	assert.NotContains(t, prompt, strings.Repeat("§", 1001))
}

func TestPromptKind_String(t *testing.T) {
	assert.Equal(t, "default", PromptDefault.String())
	assert.Equal(t, "structured", PromptStructured.String())
	assert.Equal(t, "layman", PromptLayman.String())
}

func TestBuildPrompt_PrefersFullTextOverPreview(t *testing.T) {
	chunks := []models.ContextChunk{{Case: "C", FullText: "full body", Preview: "preview body"}}
	prompt := BuildPrompt(PromptDefault, chunks, "q")
	assert.Contains(t, prompt, "full body")
	assert.NotContains(t, prompt, "preview body")
}

func TestTestConnection_NotConfigured(t *testing.T) {
	s := NewExplainService()
	_, err := s.TestConnection(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
