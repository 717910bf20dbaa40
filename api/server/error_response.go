package server

import (
	"context"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/common"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/shorty-cgi/shorty/api/templates"
	"github.com/sirupsen/logrus"
)

func handleErrorResponse(c *gin.Context, err error) {
	HandleErrorResponse(c.Request.Context(), c.Writer, err)
}

// HandleErrorResponse used to handle response errors in the same way. API
// errors keep their status code and message, anything else is a 500 whose
// page carries the error text.
func HandleErrorResponse(ctx context.Context, w http.ResponseWriter, err error) {
	log := common.Logger(ctx)

	statuscode, ok := models.GetAPIErrorCode(err)
	if ok {
		if statuscode >= 500 {
			log.WithFields(logrus.Fields{"code": statuscode}).WithError(err).Error("api error")
		}
	} else {
		log.WithError(err).WithFields(logrus.Fields{"stack": string(debug.Stack())}).Error("internal server error")
		statuscode = http.StatusInternalServerError
	}
	WriteError(ctx, w, statuscode, err.Error())
}

// WriteError renders the error page for statuscode. details may be empty.
func WriteError(ctx context.Context, w http.ResponseWriter, statuscode int, details string) {
	resp := ErrorResponse(ctx, statuscode, details)
	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		common.Logger(ctx).WithError(err).Errorln("error writing error page")
	}
}

// ErrorResponse is the error page as a cgi.Response, for callers outside the
// router such as a request that could not be built from the environment.
func ErrorResponse(ctx context.Context, statuscode int, details string) *cgi.Response {
	body, err := templates.RenderHTTPError(templates.HTTPError{StatusCode: statuscode, Details: details})
	if err != nil {
		common.Logger(ctx).WithError(err).Errorln("error rendering error page")
		return cgi.TextResponse(statuscode, http.StatusText(statuscode)+"\n"+details+"\n")
	}
	return cgi.HTMLResponse(statuscode, string(body))
}
