package service

import (
	"fmt"
	"strings"

	"caselens-backend/models"
)

// contextChunkLimit bounds each context chunk interpolated into a prompt.
const contextChunkLimit = 1000

// PromptKind is the closed set of prompt templates the orchestrator can
// select. Selection is a pure function of the question text.
type PromptKind int

const (
	PromptDefault PromptKind = iota
	PromptStructured
	PromptLayman
)

func (k PromptKind) String() string {
	switch k {
	case PromptStructured:
		return "structured"
	case PromptLayman:
		return "layman"
	default:
		return "default"
	}
}

var structuredKeywords = []string{
	"structured summary",
	"summary with sections",
	"give a structured summary",
	"case background",
	"high court",
	"supreme court",
	"why it matters",
}

var laymanKeywords = []string{
	"explain in simple terms",
	"layman",
	"non-law student",
	"simple words",
	"easy explanation",
	"plain english",
	"everyday language",
}

// ClassifyQuestion picks the prompt template for a question by
// case-insensitive substring matching. First matching category wins;
// structured is checked before layman.
func ClassifyQuestion(question string) PromptKind {
	q := strings.ToLower(question)
	for _, kw := range structuredKeywords {
		if strings.Contains(q, kw) {
			return PromptStructured
		}
	}
	for _, kw := range laymanKeywords {
		if strings.Contains(q, kw) {
			return PromptLayman
		}
	}
	return PromptDefault
}

// buildContext concatenates the context chunks, each bounded to
// contextChunkLimit characters and tagged with its source case name.
func buildContext(chunks []models.ContextChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		caseName := chunk.Case
		if caseName == "" {
			caseName = "Unknown Case"
		}
		text := models.Truncate(chunk.Text(), contextChunkLimit)
		parts = append(parts, fmt.Sprintf("[Source: %s] %s", caseName, text))
	}
	return strings.Join(parts, "\n\n")
}

const structuredTemplate = `You are a senior legal professional and expert in Indian law.
Provide a structured summary of the judgment that DIRECTLY ANSWERS the user's specific question.

Structure the response with these sections, including only the ones relevant to the question:
- Case background
- Issue (the main legal question asked about)
- High Court's decision
- Supreme Court's decision
- Why it matters (impact)

Rules:
1. Use only the provided context; do not add external knowledge.
2. If details are missing, say: "I couldn't find that information in the provided documents."
3. Cite sources using [Case Name] format.
4. Simplify legal terms into everyday language.
5. Answer only what was specifically asked; do not give a generic summary.

CONTEXT:
%s

USER'S QUESTION: %s

Provide a structured answer to the question:`

const laymanTemplate = `You are a senior legal professional and expert in Indian law.
Explain the judgment in simple terms, as if explaining to someone with no legal training.

Cover only the parts relevant to the user's question:
- What the case was about (facts and background)
- What the High Court said
- What the Supreme Court corrected
- Why it matters (impact)

Rules:
1. Use only the provided context; do not add external knowledge.
2. If something is not in the documents, say: "I couldn't find that information in the provided documents."
3. Cite sources using [Case Name] format.
4. Break legal terms into plain words and keep it short, clear and complete.
5. Answer only what was specifically asked.

CONTEXT:
%s

USER'S QUESTION: %s

Provide a simple explanation that directly answers the question:`

const defaultTemplate = `You are a senior legal professional and expert in Indian law.
Answer the user's specific question about the provided legal documents in simple, everyday words.

Rules:
1. Use only the provided context; do not add external knowledge.
2. If the answer is not in the context, say: "I couldn't find that information in the provided documents."
3. Cite sources using [Case Name] format.
4. Explain complex legal terms in simple words.
5. Keep the answer concise but complete, and address only the exact question asked.

CONTEXT:
%s

USER'S QUESTION: %s

Provide a clear answer to the question:`

// BuildPrompt interpolates the context chunks and question into the
// selected template.
func BuildPrompt(kind PromptKind, chunks []models.ContextChunk, question string) string {
	context := buildContext(chunks)
	switch kind {
	case PromptStructured:
		return fmt.Sprintf(structuredTemplate, context, question)
	case PromptLayman:
		return fmt.Sprintf(laymanTemplate, context, question)
	default:
		return fmt.Sprintf(defaultTemplate, context, question)
	}
}
