package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/service"
)

// IngestHandler handles feed ingestion endpoints.
type IngestHandler struct {
	ingestService *service.IngestService
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(ingestService *service.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// Ingest handles POST /api/v1/ingest.
func (h *IngestHandler) Ingest(c *gin.Context) {
	var req service.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	summary, err := h.ingestService.IngestFeed(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Stats handles GET /api/v1/stats.
func (h *IngestHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.ingestService.Stats())
}
