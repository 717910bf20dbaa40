package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetAPIErrorCode(t *testing.T) {
	for i, test := range []struct {
		err  error
		code int
		ok   bool
	}{
		{ErrShortURLNotFound, http.StatusNotFound, true},
		{ErrInvalidShortURLName, http.StatusNotFound, true},
		{ErrQueryNotAllowed, http.StatusBadRequest, true},
		{ErrMethodNotAllowed, http.StatusMethodNotAllowed, true},
		{ErrQuotationExists, http.StatusConflict, true},
		{fmt.Errorf("get: %w", ErrShortURLNotFound), http.StatusNotFound, true},
		{NewAPIError(http.StatusTeapot, errors.New("short and stout")), http.StatusTeapot, true},
		{errors.New("plain"), 0, false},
		{nil, 0, false},
	} {
		code, ok := GetAPIErrorCode(test.err)
		if code != test.code || ok != test.ok {
			t.Errorf("Test %d: expected (%d, %v), got (%d, %v)", i, test.code, test.ok, code, ok)
		}
	}
}
