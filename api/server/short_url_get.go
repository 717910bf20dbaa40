package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shorty-cgi/shorty/api/cgi"
	"github.com/shorty-cgi/shorty/api/models"
	"github.com/shorty-cgi/shorty/api/templates"
)

const htmlContentType = "text/html; charset=utf-8"

func (s *Server) handleShortURLGet(c *gin.Context) {
	if c.Request.URL.RawQuery != "" {
		handleErrorResponse(c, models.ErrQueryNotAllowed)
		return
	}

	name, err := models.NewShortURLName(c.Param(ParamShortURL))
	if err != nil {
		handleErrorResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	ds, err := s.Datastore(ctx)
	if err != nil {
		handleErrorResponse(c, err)
		return
	}

	shortURL, err := ds.GetURL(ctx, name)
	if err != nil {
		handleErrorResponse(c, err)
		return
	}

	// records without a modification time are not cacheable
	lastModified := shortURL.LastModified
	if !lastModified.IsZero() && cgi.NotModified(c.Request, s.cachePolicy.ETag(lastModified), lastModified) {
		s.cachePolicy.Apply(c.Writer.Header(), lastModified)
		c.Status(http.StatusNotModified)
		return
	}

	body, err := templates.RenderShortURL(templates.ShortURL{
		PageURL:  pageURL(c.Request),
		ShortURL: shortURL,
	})
	if err != nil {
		handleErrorResponse(c, err)
		return
	}

	s.cachePolicy.Apply(c.Writer.Header(), lastModified)
	c.Data(http.StatusOK, htmlContentType, body)
}
