package middleware

import (
	"libraryhub/internal/stats"

	"github.com/gin-gonic/gin"
)

// RequestCounter records a hit per method+route in the visits store.
// Uses the route template (FullPath) so /api/books/1 and /api/books/2
// land on the same counter.
func RequestCounter(visits *stats.Visits) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path // unmatched routes (404s)
		}
		visits.Record(c.Request.Context(), c.Request.Method+" "+route)
		c.Next()
	}
}
