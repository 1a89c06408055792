package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, GetHTTPStatus(ErrCodeUpstreamUnavailable))
	assert.Equal(t, http.StatusBadGateway, GetHTTPStatus(ErrCodeUpstreamRejected))
	assert.Equal(t, http.StatusBadGateway, GetHTTPStatus(ErrCodeUpstreamUnreachable))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_SOMETHING_NEW"))
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_INPUT"))
	assert.Equal(t, ErrCodeUpstreamRejected, NormalizeErrorCode(ErrCodeUpstreamRejected))
	assert.Equal(t, ErrCodeUnknown, NormalizeErrorCode("SOMETHING_ELSE"))
}

func TestResponseConstructors(t *testing.T) {
	ok := NewSuccessResponse(map[string]int{"count": 1})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	fail := NewErrorResponseWithRequestID(ErrCodeBadRequest, "bad limit", "req-123")
	assert.False(t, fail.Success)
	assert.Equal(t, ErrCodeBadRequest, fail.Error.Code)
	assert.Equal(t, "req-123", fail.Error.RequestID)
}
