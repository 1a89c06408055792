package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Upstream error codes
const (
	// ErrCodeUpstreamUnavailable is used when the upstream integration is
	// not configured (missing credentials)
	ErrCodeUpstreamUnavailable = "ERR_UPSTREAM_UNAVAILABLE"
	// ErrCodeUpstreamRejected is used when the upstream API rejected the request
	ErrCodeUpstreamRejected = "ERR_UPSTREAM_REJECTED"
	// ErrCodeUpstreamUnreachable is used for network-level upstream failures
	ErrCodeUpstreamUnreachable = "ERR_UPSTREAM_UNREACHABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeUpstreamUnavailable: http.StatusServiceUnavailable,
	ErrCodeUpstreamRejected:    http.StatusBadGateway,
	ErrCodeUpstreamUnreachable: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code, defaulting
// to 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode maps bare domain error codes onto the ERR_ namespace
func NormalizeErrorCode(code string) string {
	switch code {
	case "NOT_FOUND":
		return ErrCodeNotFound
	case "ALREADY_EXISTS":
		return ErrCodeAlreadyExists
	case "INVALID_INPUT":
		return ErrCodeInvalidInput
	case "INVALID_STATE":
		return ErrCodeInvalidState
	default:
		if _, ok := ErrorCodeHTTPStatus[code]; ok {
			return code
		}
		return ErrCodeUnknown
	}
}
