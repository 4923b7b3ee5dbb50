package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"groobi/internal/shared/testutil"
)

func TestRequestRejections(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
		wantType   string
	}{
		{"body required", ErrRequestBodyRequired, http.StatusBadRequest, CodeInvalidRequest, TypeValidation},
		{"invalid json", ErrInvalidJSON, http.StatusBadRequest, CodeInvalidJSON, TypeValidation},
		{"missing content type", ErrMissingContentType, http.StatusBadRequest, CodeMissingContentType, TypeValidation},
		{"unsupported media type", UnsupportedMediaType("text/plain", []string{"application/json"}), http.StatusUnsupportedMediaType, CodeUnsupportedMediaType, TypeValidation},
		{"payload too large", PayloadTooLarge(64, 128), http.StatusRequestEntityTooLarge, CodePayloadTooLarge, TypeValidation},
		{"undecodable body", InvalidRequestWithError(fmt.Errorf("unexpected EOF")), http.StatusBadRequest, CodeInvalidRequest, TypeValidation},
		{"rate limited", ErrRateLimitExceeded, http.StatusTooManyRequests, CodeRateLimitExceeded, TypeRateLimit},
	}

	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodPost, "/process-file", nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)

			problem := handler.ErrorToProblem(fmt.Errorf("middleware: %w", tt.err), req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.wantCode, problem.Extensions["error_code"])
		})
	}
}

func TestPayloadTooLarge_Details(t *testing.T) {
	err := PayloadTooLarge(64, 128)
	assert.Equal(t, map[string]interface{}{"max_size": int64(64), "size": int64(128)}, err.Details)
}
