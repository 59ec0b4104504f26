package models

import "fmt"

// Corpus is the full set of prior judgments, loaded once at startup and
// read-only for the process lifetime. The three parallel slices are
// index-aligned.
type Corpus struct {
	Names      []string
	Texts      []string
	Embeddings [][]float32
}

// Len returns the number of judgments in the corpus.
func (c *Corpus) Len() int {
	return len(c.Names)
}

// Judgment returns the judgment at corpus index i.
func (c *Corpus) Judgment(i int) Judgment {
	return Judgment{
		Index:     i,
		CaseName:  c.Names[i],
		FullText:  c.Texts[i],
		Embedding: c.Embeddings[i],
	}
}

// Validate checks the index-alignment invariant: all parallel slices have
// equal length and every embedding row shares the given dimension. The
// original data pipeline never checked this; a mismatch silently produced
// meaningless scores.
func (c *Corpus) Validate(dim int) error {
	if len(c.Names) != len(c.Texts) || len(c.Names) != len(c.Embeddings) {
		return fmt.Errorf("corpus arrays misaligned: %d names, %d texts, %d embeddings",
			len(c.Names), len(c.Texts), len(c.Embeddings))
	}
	for i, emb := range c.Embeddings {
		if len(emb) != dim {
			return fmt.Errorf("corpus embedding %d has dimension %d, want %d", i, len(emb), dim)
		}
	}
	return nil
}
