package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SecretHeader is the shared-secret header checked on the ingest endpoint.
const SecretHeader = "X-Ingest-Secret"

// IngestSecret returns a middleware that gates requests behind a shared
// secret header. An empty configured secret disables the check.
func IngestSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid ingest secret",
			})
			return
		}

		c.Next()
	}
}
