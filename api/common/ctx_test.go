package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDFromProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestIDInCtxAndLogger(func(*gin.Context) string { return "ZVaBcX8AAQEAABxQAAAAAA" }))
	r.GET("/", func(c *gin.Context) { seen = RequestID(c.Request.Context()) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != "ZVaBcX8AAQEAABxQAAAAAA" {
		t.Fatalf("expected provider id, got %q", seen)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(RequestIDInCtxAndLogger(nil))
	r.GET("/", func(c *gin.Context) { seen = RequestID(c.Request.Context()) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || len(seen) > maxLength {
		t.Fatalf("expected a generated id, got %q", seen)
	}
}

func TestLoggerDefaultsToStandard(t *testing.T) {
	if Logger(context.Background()) == nil {
		t.Fatal("expected the standard logger")
	}
	if RequestID(context.Background()) != "" {
		t.Fatal("expected no request id")
	}
}
