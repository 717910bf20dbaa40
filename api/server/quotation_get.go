package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/shorty-cgi/shorty/api/templates"
)

func (s *Server) handleQuotationGet(c *gin.Context) {
	if c.Request.URL.RawQuery != "" {
		handleErrorResponse(c, models.ErrQueryNotAllowed)
		return
	}

	ctx := c.Request.Context()
	ds, err := s.Datastore(ctx)
	if err != nil {
		handleErrorResponse(c, err)
		return
	}

	quote, err := ds.RandomQuote(ctx)
	if errors.Is(err, models.ErrNoQuotations) {
		quote = models.DefaultQuote
	} else if err != nil {
		handleErrorResponse(c, err)
		return
	}

	body, err := templates.RenderQuotation(templates.Quotation{Quote: quote})
	if err != nil {
		handleErrorResponse(c, err)
		return
	}

	cgi.SetExpires(c.Writer.Header(), s.now().Add(quotationExpiry))
	c.Data(http.StatusOK, htmlContentType, body)
}
