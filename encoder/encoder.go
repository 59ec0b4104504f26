// Package encoder implements the sentence encoder used for both the
// precomputed corpus embeddings and per-query embeddings. Both sides must
// use the same encoder artifact: embeddings from different encoders live
// in different spaces and compare to garbage.
package encoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"
)

var (
	ErrEmptyText     = errors.New("cannot encode empty text")
	ErrNoKnownTokens = errors.New("text contains no in-vocabulary tokens")
)

// Encoder maps text to a fixed-length embedding vector by mean-pooling
// per-token vectors from a pretrained table. Encoding is deterministic and
// fully local.
type Encoder struct {
	dim     int
	vectors map[string][]float32
}

// encoderArtifact is the on-disk JSON layout of encoder.json.
type encoderArtifact struct {
	Dim     int                  `json:"dim"`
	Vectors map[string][]float32 `json:"vectors"`
}

// Load reads a serialized encoder artifact.
func Load(r io.Reader) (*Encoder, error) {
	var art encoderArtifact
	if err := json.NewDecoder(r).Decode(&art); err != nil {
		return nil, fmt.Errorf("failed to decode encoder artifact: %w", err)
	}
	if art.Dim <= 0 {
		return nil, fmt.Errorf("encoder artifact has invalid dimension %d", art.Dim)
	}
	for tok, vec := range art.Vectors {
		if len(vec) != art.Dim {
			return nil, fmt.Errorf("encoder token %q has dimension %d, want %d", tok, len(vec), art.Dim)
		}
	}
	return &Encoder{dim: art.Dim, vectors: art.Vectors}, nil
}

// Dim returns the embedding dimension.
func (e *Encoder) Dim() int {
	return e.dim
}

// Encode computes the L2-normalized mean of the token vectors of text.
// Tokens missing from the vocabulary are skipped; text with no known
// tokens is an error, not a zero vector.
func (e *Encoder) Encode(text string) ([]float32, error) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil, ErrEmptyText
	}

	sum := make([]float64, e.dim)
	known := 0
	for _, tok := range tokens {
		vec, ok := e.vectors[tok]
		if !ok {
			continue
		}
		known++
		for i, v := range vec {
			sum[i] += float64(v)
		}
	}
	if known == 0 {
		return nil, ErrNoKnownTokens
	}

	var norm float64
	for i := range sum {
		sum[i] /= float64(known)
		norm += sum[i] * sum[i]
	}
	norm = math.Sqrt(norm)

	out := make([]float32, e.dim)
	if norm > 0 {
		for i := range sum {
			out[i] = float32(sum[i] / norm)
		}
	}
	return out, nil
}

// Tokenize lowercases text and splits it into alphanumeric tokens,
// trimming surrounding punctuation. Shared with the classifier so both
// models see the same token stream.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
