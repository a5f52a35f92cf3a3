package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Sercan1251/robocombo-gpt-server-v3/internal/domain"
)

// respondError maps a service error to its caller-facing HTTP status.
// Upstream failures keep their diagnostic status and payload.
func respondError(c *gin.Context, err error) {
	de := domain.AsError(err)
	body := gin.H{
		"error": de.Message,
		"kind":  de.Kind,
	}
	if de.Kind == domain.KindUpstreamFailure {
		body["status"] = de.Status
		if de.Payload != "" {
			body["data"] = de.Payload
		}
	}
	c.JSON(de.HTTPStatus(), body)
}
