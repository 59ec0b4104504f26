package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, Preview(short))

	long := strings.Repeat("a", PreviewLength+100)
	assert.Equal(t, long[:PreviewLength], Preview(long))
	assert.True(t, strings.HasPrefix(long, Preview(long)))
}

func TestPreview_MultibyteBoundary(t *testing.T) {
	// A two-byte rune straddling the limit must survive whole, not be
	// split into invalid bytes.
	long := strings.Repeat("a", PreviewLength-1) + "§" + strings.Repeat("b", 50)

	p := Preview(long)
	assert.True(t, utf8.ValidString(p))
	assert.Equal(t, PreviewLength, utf8.RuneCountInString(p))
	assert.True(t, strings.HasPrefix(long, p))
	assert.True(t, strings.HasSuffix(p, "§"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "§§", Truncate("§§§", 2))
	assert.Empty(t, Truncate("abc", 0))
}

func TestContextChunk_Text(t *testing.T) {
	assert.Equal(t, "full", ContextChunk{FullText: "full", Preview: "preview"}.Text())
	assert.Equal(t, "preview", ContextChunk{Preview: "preview"}.Text())
	assert.Empty(t, ContextChunk{}.Text())
}

func TestExplanationResult_Failed(t *testing.T) {
	assert.False(t, ExplanationResult{Answer: "ok"}.Failed())
	assert.True(t, ExplanationResult{Err: "boom"}.Failed())
}

func TestCorpus_Judgment(t *testing.T) {
	c := &Corpus{
		Names:      []string{"State v Sharma", "Union v Mehta"},
		Texts:      []string{"first body", "second body"},
		Embeddings: [][]float32{{1, 0}, {0, 1}},
	}

	j := c.Judgment(1)
	assert.Equal(t, 1, j.Index)
	assert.Equal(t, "Union v Mehta", j.CaseName)
	assert.Equal(t, "second body", j.FullText)
	assert.Equal(t, []float32{0, 1}, j.Embedding)
}

func TestCorpus_Validate(t *testing.T) {
	good := &Corpus{
		Names:      []string{"a", "b"},
		Texts:      []string{"ta", "tb"},
		Embeddings: [][]float32{{1, 0}, {0, 1}},
	}
	assert.NoError(t, good.Validate(2))
	assert.Error(t, good.Validate(3))

	bad := &Corpus{
		Names:      []string{"a"},
		Texts:      []string{"ta", "tb"},
		Embeddings: [][]float32{{1, 0}},
	}
	assert.Error(t, bad.Validate(2))
}
