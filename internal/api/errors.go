package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a call that never produced a usable server verdict:
// transport failure, a 5xx response, or a body that did not parse. The caller
// keeps its last-known-good state and reports a generic message.
var ErrUnavailable = errors.New("backend unreachable")

// ErrNoMatch is the zero-results outcome of a product search. It is a valid
// result, not a failure: the service answers a filtered query with 404 when
// nothing matches.
var ErrNoMatch = errors.New("no matching products")

// StatusError carries a 4xx verdict from the server together with the
// human-readable message the server supplied. The message is surfaced to the
// user verbatim.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Code, e.Message)
}

// genericFailureMessage mirrors the wording the storefront has always shown
// when the backend could not be reached or returned garbage.
const genericFailureMessage = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."

// FailureMessage translates a remote-call error into the message shown to the
// user: the server's own words for a 4xx, a generic one for everything else.
func FailureMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Message
	}
	return genericFailureMessage
}
