package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// requireToken gates the process routes behind a static bearer token.
// Terminate and quarantine are destructive, and even the read side
// leaks command lines, so the whole /processes group is covered. An
// empty token disables the check for local single-operator use.
func requireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			writeJSON(c, http.StatusUnauthorized, errorResp{Error: "missing or invalid bearer token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
