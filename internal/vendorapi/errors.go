package vendorapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the API answers with an empty data
	// envelope or a 404.
	ErrNotFound = errors.New("not found")

	// ErrNoData is returned when a successful envelope carries no data.
	ErrNoData = errors.New("response carried no data")
)

// APIError is a request the Persistence API answered but did not accept:
// either a non-2xx status or an envelope with success=false.
type APIError struct {
	Status  int    // HTTP status code
	Message string // server-provided message, may be empty
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is(err, ErrNotFound) match a 404 answer.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ServerMessage returns the message supplied by the server, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
