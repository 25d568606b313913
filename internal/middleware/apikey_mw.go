package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const APIKeyHeader = "X-API-KEY"

// SharedSecretMiddleware requires the static API key header. Paths listed in
// bypass pass through; an entry ending in "*" matches by prefix.
func SharedSecretMiddleware(secret string, bypass ...string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		if isBypassed(c.Request.URL.Path, bypass) {
			c.Next()
			return
		}

		received, ok := c.Request.Header[http.CanonicalHeaderKey(APIKeyHeader)]
		if !ok || len(received) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key missing"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(received[0]), expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key"})
			return
		}

		c.Next()
	}
}

func isBypassed(path string, bypass []string) bool {
	for _, p := range bypass {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
