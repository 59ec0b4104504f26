// Package classifier serves the pretrained judgment category model: a
// linear classifier over tf-idf weighted bag-of-words features. Inference
// is a single forward pass; there is no online training or thresholding.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"caselens-backend/encoder"
)

var ErrUnscorable = errors.New("text contains no in-vocabulary tokens")

// Classifier predicts a single category label for a judgment text.
type Classifier struct {
	labels  []string
	vocab   map[string]int
	idf     []float64
	weights [][]float64 // one row per label, one column per vocab term
	bias    []float64
}

// classifierArtifact is the on-disk JSON layout of classifier.json.
type classifierArtifact struct {
	Labels  []string       `json:"labels"`
	Vocab   map[string]int `json:"vocab"`
	IDF     []float64      `json:"idf"`
	Weights [][]float64    `json:"weights"`
	Bias    []float64      `json:"bias"`
}

// Load reads a serialized classifier artifact.
func Load(r io.Reader) (*Classifier, error) {
	var art classifierArtifact
	if err := json.NewDecoder(r).Decode(&art); err != nil {
		return nil, fmt.Errorf("failed to decode classifier artifact: %w", err)
	}
	if len(art.Labels) == 0 {
		return nil, errors.New("classifier artifact has no labels")
	}
	if len(art.Weights) != len(art.Labels) || len(art.Bias) != len(art.Labels) {
		return nil, fmt.Errorf("classifier artifact misaligned: %d labels, %d weight rows, %d biases",
			len(art.Labels), len(art.Weights), len(art.Bias))
	}
	for i, row := range art.Weights {
		if len(row) != len(art.IDF) {
			return nil, fmt.Errorf("classifier weight row %d has %d columns, want %d", i, len(row), len(art.IDF))
		}
	}
	for term, idx := range art.Vocab {
		if idx < 0 || idx >= len(art.IDF) {
			return nil, fmt.Errorf("classifier vocab term %q has out-of-range index %d", term, idx)
		}
	}
	return &Classifier{
		labels:  art.Labels,
		vocab:   art.Vocab,
		idf:     art.IDF,
		weights: art.Weights,
		bias:    art.Bias,
	}, nil
}

// Labels returns the closed set of category labels.
func (c *Classifier) Labels() []string {
	return c.labels
}

// Predict returns the top category label for text.
func (c *Classifier) Predict(text string) (string, error) {
	features, known := c.featurize(text)
	if known == 0 {
		return "", ErrUnscorable
	}

	best := 0
	bestScore := c.score(0, features)
	for i := 1; i < len(c.labels); i++ {
		if s := c.score(i, features); s > bestScore {
			best, bestScore = i, s
		}
	}
	return c.labels[best], nil
}

// featurize builds an L1-normalized tf-idf feature map keyed by vocab index.
func (c *Classifier) featurize(text string) (map[int]float64, int) {
	tokens := encoder.Tokenize(text)

	counts := make(map[int]float64)
	known := 0
	for _, tok := range tokens {
		idx, ok := c.vocab[tok]
		if !ok {
			continue
		}
		known++
		counts[idx]++
	}
	if known == 0 {
		return nil, 0
	}

	for idx := range counts {
		counts[idx] = counts[idx] / float64(known) * c.idf[idx]
	}
	return counts, known
}

func (c *Classifier) score(label int, features map[int]float64) float64 {
	s := c.bias[label]
	row := c.weights[label]
	for idx, v := range features {
		s += row[idx] * v
	}
	return s
}
