package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// sessionRoute is the route segment that carries a shopper session id.
const sessionRoute = "/sessions/:id"

// SessionID returns the session id of a .../sessions/:id route, or "" for
// every other route (including /products/:id).
func SessionID(c *gin.Context) string {
	if !strings.Contains(c.FullPath(), sessionRoute) {
		return ""
	}
	return c.Param("id")
}

// IsSessionRoute reports whether the request addresses one shopper session.
func IsSessionRoute(c *gin.Context) bool { return SessionID(c) != "" }
