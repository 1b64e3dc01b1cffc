// Package identity extracts the caller's user id from an incoming request.
// The default provider trusts an id claimed in the request itself, matching
// the API contract the frontend was built against. The token provider is an
// opt-in replacement for deployments that issue signed tokens at login.
package identity

import (
	"errors"
	"net/http"
)

var (
	// ErrNoIdentity reports that the request carries no user id.
	ErrNoIdentity = errors.New("identity: no user id in request")
	// ErrMalformed reports an id that is present but unusable.
	ErrMalformed = errors.New("identity: malformed user id")
)

// Provider resolves the user id a request claims to act as.
type Provider interface {
	Resolve(r *http.Request) (int64, error)
}
