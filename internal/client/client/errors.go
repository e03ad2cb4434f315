package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable means the server could not be reached or did not answer.
	ErrUnavailable = errors.New("server unavailable")

	// ErrRejected means the server answered with an error status.
	ErrRejected = errors.New("request rejected")

	// ErrNotFound is a rejection for a document the server does not know.
	ErrNotFound = errors.New("document not found on server")
)

// RejectedError carries the status of a server-side rejection. Status uses
// HTTP status codes for both transports.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request rejected: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("request rejected: %d %s", e.Status, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	switch target {
	case ErrRejected:
		return true
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// StatusOf returns the status carried by a rejection, or 0.
func StatusOf(err error) int {
	var re *RejectedError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
