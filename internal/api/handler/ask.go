package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatService is the generation surface used by the ask endpoints.
type ChatService interface {
	Ask(ctx context.Context, userMessage string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// AskHandler handles the single-shot chat endpoints.
type AskHandler struct {
	chat ChatService
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(chat ChatService) *AskHandler {
	return &AskHandler{chat: chat}
}

// AskRequest represents the ask API request.
type AskRequest struct {
	Message string `json:"message"`
}

// Ask handles POST /ask: one chat-completion call with retry/fallback,
// no retrieval context.
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message must not be empty",
		})
		return
	}

	reply, err := h.chat.Ask(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.String(http.StatusOK, reply)
}

// Models handles GET /models: proxies the provider model listing
// filtered to GPT models.
func (h *AskHandler) Models(c *gin.Context) {
	models, err := h.chat.ListModels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models)
}
