package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shorty-cgi/shorty/api/cgi"
)

const defaultRedirectStatus = http.StatusInternalServerError

// handleErrorDocGet serves the web server's ErrorDocument: the status the
// server meant to send comes in REDIRECT_STATUS.
func (s *Server) handleErrorDocGet(c *gin.Context) {
	WriteError(c.Request.Context(), c.Writer, redirectStatus(s.env), "")
}

func redirectStatus(env cgi.Environment) int {
	v, ok := cgi.Getenv(env, cgi.RedirectStatus)
	if !ok {
		return defaultRedirectStatus
	}
	code, err := strconv.Atoi(v)
	if err != nil || code < 100 || code > 999 {
		return defaultRedirectStatus
	}
	return code
}
