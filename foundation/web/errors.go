package web

import "net/http"

// Error carries an HTTP status alongside the underlying cause. Controllers
// and repositories return it when they already know how the failure should be
// reported to the client.
type Error struct {
	Err    error
	Status int
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// NewRequestError wraps err with the status code the response should carry.
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

// StatusOf extracts the response status for err, defaulting to 500 for
// anything that was not wrapped on the way up.
func StatusOf(err error) int {
	if webErr, ok := err.(*Error); ok {
		return webErr.Status
	}
	return http.StatusInternalServerError
}
