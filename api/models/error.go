package models

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrShortURLNotFound = err{
		code:  http.StatusNotFound,
		error: errors.New("Short URL not found"),
	}
	ErrInvalidShortURLName = err{
		code:  http.StatusNotFound,
		error: fmt.Errorf("Short URL name must be %d to %d characters of [A-Za-z0-9_-]", MinShortURLNameLength, MaxShortURLNameLength),
	}
	ErrInvalidURL = err{
		code:  http.StatusBadRequest,
		error: errors.New("URL must be an absolute http or https URL without credentials"),
	}
	ErrNoQuotations = err{
		code:  http.StatusNotFound,
		error: errors.New("No quotations found"),
	}
	ErrQuotationExists = err{
		code:  http.StatusConflict,
		error: errors.New("Quotation already exists in this collection"),
	}
	ErrInvalidQuotation = err{
		code:  http.StatusBadRequest,
		error: errors.New("Quotation must not be empty"),
	}
	ErrMethodNotAllowed = err{
		code:  http.StatusMethodNotAllowed,
		error: errors.New("Method not allowed"),
	}
	ErrQueryNotAllowed = err{
		code:  http.StatusBadRequest,
		error: errors.New("Query string not allowed"),
	}
	ErrRouteNotFound = err{
		code:  http.StatusNotFound,
		error: errors.New("Page not found"),
	}
	ErrMigrationsNeeded = err{
		code:  http.StatusInternalServerError,
		error: errors.New("Database schema is not up to date, migrations needed"),
	}
	ErrDatastoreUnavailable = err{
		code:  http.StatusInternalServerError,
		error: errors.New("No database configured"),
	}
)

// any error that implements this interface will return an API response
// with the provided status code and error message body
type APIError interface {
	Code() int
	error
}

type err struct {
	code int
	error
}

func (e err) Code() int { return e.code }

func NewAPIError(code int, e error) APIError { return err{code, e} }

// GetAPIErrorCode returns the status code of err if it is (or wraps) an
// APIError, and ok false otherwise.
func GetAPIErrorCode(e error) (code int, ok bool) {
	var apiErr APIError
	if errors.As(e, &apiErr) {
		return apiErr.Code(), true
	}
	return 0, false
}
