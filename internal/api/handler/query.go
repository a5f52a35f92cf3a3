package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/domain"
	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/service"
)

// QueryHandler handles retrieval-augmented query endpoints.
type QueryHandler struct {
	queryService *service.QueryService
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(queryService *service.QueryService) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
	}
}

// QueryRequest represents the query API request.
type QueryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"topK"`
}

// QueryResponse represents the query API response.
type QueryResponse struct {
	Answer  string       `json:"answer"`
	Matches []QueryMatch `json:"matches"`
}

// QueryMatch is one retrieved product with its similarity score.
type QueryMatch struct {
	ID    string      `json:"id"`
	Score float32     `json:"score"`
	Meta  domain.Meta `json:"meta"`
}

// Query handles POST /api/v1/query.
func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	answer, matches, err := h.queryService.Answer(c.Request.Context(), req.Question, req.TopK)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := QueryResponse{
		Answer:  answer,
		Matches: make([]QueryMatch, 0, len(matches)),
	}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, QueryMatch{
			ID:    m.ID,
			Score: m.Score,
			Meta:  m.Meta,
		})
	}

	c.JSON(http.StatusOK, resp)
}
