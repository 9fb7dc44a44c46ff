package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/loykin/procguard/internal/locator"
)

func sanitizeBase(bp string) string {
	bp = strings.TrimSpace(bp)
	if bp == "" || bp == "/" {
		return ""
	}
	if !strings.HasPrefix(bp, "/") {
		bp = "/" + bp
	}
	bp = strings.TrimRight(bp, "/")
	return bp
}

// parsePID validates the pid path segment. Plain decimal only: no
// sign, no whitespace, no hex. The core packages take pid as a number
// and do no validation of their own, so the boundary is here.
func parsePID(s string) (uint64, error) {
	pid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New("pid must be an unsigned decimal integer")
	}
	return pid, nil
}

// lookupStatus maps locator failures to HTTP codes: a pid that does
// not exist is the caller's 404, everything else is the agent's 500.
func lookupStatus(err error) int {
	if locator.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(c *gin.Context, code int, v any) {
	c.Header("Content-Type", "application/json")
	c.Status(code)
	_ = json.NewEncoder(c.Writer).Encode(v)
}
