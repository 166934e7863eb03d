package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	allowHeaders = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
)

// New builds a CORS middleware from the configured origin allowlist.
// An empty list allows every origin.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[normalize(o)] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Vary", "Origin")

		origin := c.GetHeader("Origin")
		switch {
		case origin == "" && len(allowed) == 0:
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "":
			if _, ok := allowed[normalize(origin)]; ok || len(allowed) == 0 {
				h.Set("Access-Control-Allow-Origin", origin)
			}
		}

		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(origin, "/"))
}
