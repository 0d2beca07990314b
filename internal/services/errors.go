package services

import (
	"fmt"

	"github.com/piclinks/piclinks/internal/shared"
)

// StatusError reports a non-2xx response whose body carried no usable error
// message. Matches [shared.ErrAPIRequest] via errors.Is.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == shared.ErrAPIRequest
}

// ServerRejection reports an explicit "error" field in a response body,
// whatever the HTTP status. Matches [shared.ErrAPIRequest] via errors.Is.
type ServerRejection struct {
	Message string
	Status  int
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("server rejected request: %s", e.Message)
}

func (e *ServerRejection) Is(target error) bool {
	return target == shared.ErrAPIRequest
}
