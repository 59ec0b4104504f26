package handlers

import (
	"log"
	"net/http"
	"strings"

	"caselens-backend/models"
	"caselens-backend/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the follow-up explanation routes. The server keeps no
// session memory; clients resend the ranked results they want explained.
type ChatHandler struct {
	explainService *service.ExplainService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(explainService *service.ExplainService) *ChatHandler {
	return &ChatHandler{explainService: explainService}
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing 'question' in request data",
		})
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Question cannot be empty",
		})
		return
	}

	if len(req.Context) == 0 {
		if service.IsGreeting(question) {
			c.JSON(http.StatusOK, gin.H{
				"success":  true,
				"response": service.MsgGreeting,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"response": service.MsgNoContext,
		})
		return
	}

	if !h.explainService.Available() {
		// Degraded state, not a server failure.
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   service.MsgUnavailable,
		})
		return
	}

	result := h.explainService.Explain(c.Request.Context(), question, req.Context)
	if result.Failed() {
		log.Printf("[%s] explanation failed: %s", RequestIDOf(c), result.Err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   result.Err,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"response": result.Answer,
		"sources":  result.Sources,
	})
}

// TestAPI handles GET /test-api: a fixed-prompt diagnostic call against
// the LLM provider.
func (h *ChatHandler) TestAPI(c *gin.Context) {
	if !h.explainService.Available() {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   "Gemini model not initialized",
		})
		return
	}

	response, err := h.explainService.TestConnection(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "API test successful",
		"response": response,
	})
}
