package server

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/version"
)

// handleDebugEnvGet dumps the meta-variables and the request as rebuilt from
// them. Only routed when debug is on.
func (s *Server) handleDebugEnvGet(c *gin.Context) {
	var b strings.Builder
	fmt.Fprintf(&b, "version: %s\n\n", version.Version)
	for _, kv := range cgi.MetaVars(s.env) {
		fmt.Fprintf(&b, "%s=%s\n", kv.Key, kv.Value)
	}
	b.WriteString("\n")

	dump, err := httputil.DumpRequest(c.Request, false)
	if err != nil {
		handleErrorResponse(c, err)
		return
	}
	b.Write(dump)

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}
