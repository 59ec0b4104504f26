package models

// PreviewLength is the maximum number of characters included in a
// RankedResult preview. The preview is always a prefix of FullText.
const PreviewLength = 500

// Judgment is a single prior judgment from the loaded corpus.
// The corpus is index-aligned: position i in the texts, names and
// embeddings arrays always refers to the same judgment.
type Judgment struct {
	Index     int       `json:"index"`
	CaseName  string    `json:"case_name"`
	FullText  string    `json:"full_text"`
	Embedding []float32 `json:"embedding"`
}

// RankedResult is one retrieved judgment in a top-K ranking.
type RankedResult struct {
	Case     string  `json:"case"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
	Preview  string  `json:"preview"`
	FullText string  `json:"full_text"`
}

// Preview returns the bounded prefix of text shown in result listings.
func Preview(text string) string {
	return Truncate(text, PreviewLength)
}

// Truncate bounds text to at most n characters. It cuts only at rune
// boundaries, so the result is always valid UTF-8 and a byte prefix of
// text.
func Truncate(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
