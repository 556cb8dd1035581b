package sources

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedPage means the hadith envelope arrived but its data field was not a list.
var ErrMalformedPage = errors.New("hadith page data is not a list")

// ErrMissingPage means a successful response carried no hadith page at all.
var ErrMissingPage = errors.New("response has no hadith page")

// APIError is a failure reported by the API, either through the body status or the HTTP status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api status %d", e.Status)
}

// IsNotFound reports whether err is an API not-found response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Message extracts the API-provided message from err, if any.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
