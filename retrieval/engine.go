// Package retrieval ranks corpus judgments against a query text by
// embedding cosine similarity.
package retrieval

import (
	"fmt"
	"math"
	"sort"

	"caselens-backend/encoder"
	"caselens-backend/models"
)

// TopK is the fixed number of results returned per query.
const TopK = 5

// Engine performs nearest-judgment lookup over an immutable corpus. All
// state is read-only after construction, so concurrent Retrieve calls need
// no locking.
type Engine struct {
	corpus  *models.Corpus
	encoder *encoder.Encoder
}

// NewEngine creates a retrieval engine over a validated corpus. The
// encoder must be the one the corpus embeddings were built with.
func NewEngine(corpus *models.Corpus, enc *encoder.Encoder) *Engine {
	return &Engine{corpus: corpus, encoder: enc}
}

// Retrieve returns the min(k, corpus size) nearest judgments to query,
// ordered by descending cosine score. Equal scores are broken by ascending
// corpus index, so identical queries always rank identically.
func (e *Engine) Retrieve(query string, k int) ([]models.RankedResult, error) {
	qvec, err := e.encoder.Encode(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	type hit struct {
		index int
		score float64
	}
	hits := make([]hit, e.corpus.Len())
	for i := range hits {
		hits[i] = hit{index: i, score: cosine(qvec, e.corpus.Embeddings[i])}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].index < hits[j].index
	})

	if k > len(hits) {
		k = len(hits)
	}

	results := make([]models.RankedResult, 0, k)
	for _, h := range hits[:k] {
		j := e.corpus.Judgment(h.index)
		results = append(results, models.RankedResult{
			Case:     j.CaseName,
			Score:    h.score,
			Rank:     len(results) + 1,
			Preview:  models.Preview(j.FullText),
			FullText: j.FullText,
		})
	}
	return results, nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float32
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float64(dot) / (math.Sqrt(float64(na)) * math.Sqrt(float64(nb)))
}
