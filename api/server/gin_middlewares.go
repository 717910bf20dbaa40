// This is middleware we're using for every request.

package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/common"
	"github.com/sirupsen/logrus"
)

const unmatchedRoute = "unmatched"

func panicWrap(c *gin.Context) {
	defer func(c *gin.Context) {
		if rec := recover(); rec != nil {
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("shorty: %v", rec)
			}
			handleErrorResponse(c, err)
			c.Abort()
		}
	}(c)
	c.Next()
}

// ridWrap takes the request id from the web server's UNIQUE_ID, when
// mod_unique_id provides one.
func (s *Server) ridWrap() gin.HandlerFunc {
	return common.RequestIDInCtxAndLogger(func(*gin.Context) string {
		rid, _ := cgi.Getenv(s.env, cgi.UniqueID)
		return rid
	})
}

func loggerWrap(c *gin.Context) {
	ctx, _ := common.LoggerWithFields(c.Request.Context(), extractFields(c))
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func extractFields(c *gin.Context) logrus.Fields {
	fields := logrus.Fields{"action": route(c), "method": c.Request.Method}
	if name := c.Param(ParamShortURL); name != "" {
		fields[ParamShortURL] = name
	}
	return fields
}

func metricsWrap(c *gin.Context) {
	start := time.Now()
	c.Next()

	r := route(c)
	common.Requests.WithLabelValues(r, strconv.Itoa(c.Writer.Status())).Inc()
	common.RequestDuration.WithLabelValues(r).Observe(time.Since(start).Seconds())
}

// route is the matched route pattern, e.g. /:short_url.
func route(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedRoute
}
