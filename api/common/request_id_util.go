package common

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

const (
	ridLabel  = "request_id"
	maxLength = 32
)

// RequestIDInCtxAndLogger stores a request id in the request context and in
// the context logger. The id comes from provider (the web server's
// UNIQUE_ID, say) and is generated when provider has none.
func RequestIDInCtxAndLogger(provider func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rid string
		if provider != nil {
			rid = provider(c)
		}
		if rid == "" {
			rid = xid.New().String()
		}
		if len(rid) > maxLength {
			rid = rid[:maxLength]
		}
		ctx := WithRequestID(c.Request.Context(), rid)
		ctx, _ = LoggerWithFields(ctx, logrus.Fields{ridLabel: rid})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
