package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newSecretRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/ingest", IngestSecret(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestIngestSecret(t *testing.T) {
	testCases := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
	}{
		{name: "matching secret", secret: "s3cret", header: "s3cret", wantStatus: http.StatusOK},
		{name: "wrong secret", secret: "s3cret", header: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header", secret: "s3cret", header: "", wantStatus: http.StatusUnauthorized},
		{name: "check disabled", secret: "", header: "", wantStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newSecretRouter(tc.secret)
			req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
			if tc.header != "" {
				req.Header.Set(SecretHeader, tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Status: got %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}
