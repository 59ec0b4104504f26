package models

// ContextChunk is one retrieved case a client sends back on a follow-up
// explanation request. The server is stateless across requests; the chat
// context is whatever the client chooses to resend.
type ContextChunk struct {
	Case     string `json:"case"`
	FullText string `json:"full_text,omitempty"`
	Preview  string `json:"preview,omitempty"`
}

// Text returns the chunk body, preferring the full text over the preview.
func (c ContextChunk) Text() string {
	if c.FullText != "" {
		return c.FullText
	}
	return c.Preview
}

// ChatRequest is the JSON body of POST /chat.
type ChatRequest struct {
	Question string         `json:"question"`
	Context  []ContextChunk `json:"context"`
}

// ExplanationResult carries exactly one of Answer or Err, plus the case
// names the answer was grounded on. Sources come from the input context,
// not from parsing the model output.
type ExplanationResult struct {
	Answer  string
	Err     string
	Sources []string
}

// Failed reports whether the result carries an error instead of an answer.
func (r ExplanationResult) Failed() bool {
	return r.Err != ""
}
