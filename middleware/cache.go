package middleware

import "github.com/gin-gonic/gin"

// CacheControlMiddleware marks public, rarely-changing GET responses
// (product listings, categories) as cacheable.
func CacheControlMiddleware(duration string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age="+duration)
		c.Next()
	}
}
