package middleware

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

var warnOpenOnce sync.Once

// APIKey returns a middleware that checks the X-API-Key header against the
// configured key. An unset key leaves the API open in development but is a
// server error in production.
func APIKey(configuredKey string, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if configuredKey == "" {
			if production {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   gin.H{"code": "API_KEY_NOT_CONFIGURED", "message": "API key is not configured"},
				})
				return
			}
			warnOpenOnce.Do(func() {
				log.Printf("middleware.APIKey: no API key configured, requests are unauthenticated")
			})
			c.Next()
			return
		}

		if c.GetHeader("X-API-Key") != configuredKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_API_KEY", "message": "missing or invalid API key"},
			})
			return
		}
		c.Next()
	}
}
