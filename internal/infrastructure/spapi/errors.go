package spapi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUpstreamUnreachable is returned on network-level failures
	// (timeout, DNS, connection reset) talking to the upstream API
	ErrUpstreamUnreachable = errors.New("spapi: upstream unreachable")
)

// MissingCredentialsError is returned when the credential triple is not
// fully configured. Checked before any network call is attempted.
type MissingCredentialsError struct {
	Missing []string
}

// Error implements the error interface
func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("spapi: missing credentials: %s", strings.Join(e.Missing, ", "))
}

// AuthError is returned when the LWA token endpoint rejects the
// refresh-token grant
type AuthError struct {
	Status int
	Body   string
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return fmt.Sprintf("spapi: token exchange failed: HTTP %d: %s", e.Status, e.Body)
}

// RequestError is returned when the order-search endpoint rejects the request
type RequestError struct {
	Status int
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("spapi: order fetch failed: HTTP %d", e.Status)
}
