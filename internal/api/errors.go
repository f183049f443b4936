package api

import (
	"errors"
	"fmt"
)

// RejectedError is an application-class failure: the server received the
// request and turned it down (validation, auth, bad payload). Its message is
// shown to the user verbatim and the request is not retried automatically.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request rejected with status %d", e.StatusCode)
}

// IsRejection reports whether err is application-class. Everything else
// coming out of the client (transport failures, timeouts, 5xx) is considered
// network-class: transient, safe to queue and retry.
func IsRejection(err error) (*RejectedError, bool) {
	var re *RejectedError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
