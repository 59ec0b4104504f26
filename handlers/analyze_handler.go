package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"caselens-backend/classifier"
	"caselens-backend/extract"
	"caselens-backend/retrieval"

	"github.com/gin-gonic/gin"
)

// judgmentMarker splits boilerplate headers from the operative part of a
// judgment document. Analysis runs on the suffix from its first
// (case-sensitive) occurrence.
const judgmentMarker = "JUDGMENT"

const minWordCount = 5

// DefaultMaxUploadBytes caps uploads at 10 MB.
const DefaultMaxUploadBytes = 10 * 1024 * 1024

// AnalyzeHandler serves the search page: document in, ranked similar
// judgments plus predicted category out.
type AnalyzeHandler struct {
	engine         *retrieval.Engine
	classifier     *classifier.Classifier
	maxUploadBytes int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(engine *retrieval.Engine, clf *classifier.Classifier, maxUploadBytes int64) *AnalyzeHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &AnalyzeHandler{
		engine:         engine,
		classifier:     clf,
		maxUploadBytes: maxUploadBytes,
	}
}

// Index handles GET /. Always a fresh empty results page.
func (h *AnalyzeHandler) Index(c *gin.Context) {
	setNoCacheHeaders(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"results":           nil,
		"category":          nil,
		"original_document": nil,
	})
}

// Analyze handles POST /. All per-request document buffers are local to
// this call and not retained or logged once the response is written.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	// Reject oversized uploads before touching the multipart body.
	if c.Request.ContentLength > h.maxUploadBytes {
		c.String(http.StatusRequestEntityTooLarge, "Uploaded file is too large. Max size allowed is 10 MB.")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	// Chunked or mislabeled oversized bodies get past the Content-Length
	// check and only trip the reader during form parsing.
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			c.String(http.StatusRequestEntityTooLarge, "Uploaded file is too large. Max size allowed is 10 MB.")
			return
		}
		c.String(http.StatusBadRequest, "Could not parse request body.")
		return
	}

	inputText := strings.TrimSpace(c.PostForm("text_input"))

	fileHeader, fileErr := c.FormFile("file")
	hasFile := fileErr == nil && fileHeader != nil && fileHeader.Filename != ""

	if inputText == "" && !hasFile {
		c.String(http.StatusBadRequest, "No input provided (paste text or upload a PDF).")
		return
	}
	if inputText != "" && hasFile {
		c.String(http.StatusBadRequest, "Provide either pasted text or a PDF upload, not both.")
		return
	}

	if hasFile {
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
			c.String(http.StatusBadRequest, "Only PDF files are allowed.")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.String(http.StatusBadRequest, "Could not read uploaded file.")
			return
		}
		pdfBytes, err := io.ReadAll(file)
		file.Close()
		if err != nil || len(pdfBytes) == 0 {
			c.String(http.StatusBadRequest, "Uploaded file is empty.")
			return
		}

		inputText, err = extract.Text(pdfBytes)
		if err != nil {
			c.String(http.StatusBadRequest, "PDF processing failed: %v", err)
			return
		}
	}

	if inputText == "" {
		c.String(http.StatusBadRequest, "No text could be extracted from the input.")
		return
	}

	wordCount := len(strings.Fields(inputText))
	if wordCount < minWordCount {
		c.String(http.StatusBadRequest,
			"Input text is too short. Please provide at least %d words for meaningful analysis. Current: %d words.",
			minWordCount, wordCount)
		return
	}

	text := NormalizeJudgmentText(inputText)

	category, err := h.classifier.Predict(text)
	if err != nil {
		log.Printf("[%s] category prediction failed: %v", RequestIDOf(c), err)
		c.String(http.StatusInternalServerError, "Error in category prediction: %v", err)
		return
	}

	results, err := h.engine.Retrieve(text, retrieval.TopK)
	if err != nil {
		log.Printf("[%s] semantic search failed: %v", RequestIDOf(c), err)
		c.String(http.StatusInternalServerError, "Error in semantic search: %v", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"results":           results,
		"category":          category,
		"original_document": text,
	})
}

// NormalizeJudgmentText returns the suffix of text from the first
// occurrence of the JUDGMENT marker, or text unchanged when absent.
func NormalizeJudgmentText(text string) string {
	if idx := strings.Index(text, judgmentMarker); idx != -1 {
		return text[idx:]
	}
	return text
}

func setNoCacheHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}
