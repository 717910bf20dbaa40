package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shorty-cgi/shorty/api/models"
)

func TestErrorResponseWithAPIError(t *testing.T) {
	err := models.ErrQueryNotAllowed
	w := httptest.NewRecorder()
	HandleErrorResponse(context.Background(), w, err)

	if w.Code != err.Code() {
		t.Fatalf("Wrong error code, expected %d got %d", err.Code(), w.Code)
	}
	if !strings.Contains(w.Body.String(), "<h2>400 Bad Request</h2>") {
		t.Fatalf("Expected the status in the page, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "<pre>Query string not allowed</pre>") {
		t.Fatalf("Expected the error message in the page, got %s", w.Body.String())
	}
}

func TestErrorResponseWithWrappedAPIError(t *testing.T) {
	err := fmt.Errorf("lookup gh: %w", models.ErrShortURLNotFound)
	w := httptest.NewRecorder()
	HandleErrorResponse(context.Background(), w, err)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Wrong error code, expected %d got %d", http.StatusNotFound, w.Code)
	}
}

func TestErrorResponseWithGenericError(t *testing.T) {
	w := httptest.NewRecorder()
	HandleErrorResponse(context.Background(), w, errors.New("disk <full>"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Wrong error code, expected %d got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), "<pre>disk &lt;full&gt;</pre>") {
		t.Fatalf("Expected escaped details in the page, got %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("Wrong content type %q", ct)
	}
}

func TestErrorResponseWithoutDetails(t *testing.T) {
	resp := ErrorResponse(context.Background(), http.StatusForbidden, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("Wrong error code, expected %d got %d", http.StatusForbidden, resp.StatusCode)
	}
	if strings.Contains(string(resp.Body), "<pre>") {
		t.Fatalf("Expected no details block, got %s", resp.Body)
	}
}
