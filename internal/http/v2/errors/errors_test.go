package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrMissingFields.WithDetail("token is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "MISSING_FIELDS", body["code"])
	assert.Equal(t, "token is required", body["detail"])
}

func TestWriteError_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrServiceUnavailable.WithCause(errors.New("dial tcp 10.0.0.1:5432: refused")))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestFromError_GenericBecomesInternal(t *testing.T) {
	cause := errors.New("boom")

	appErr := FromError(cause)

	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.ErrorIs(t, appErr, cause)
}

func TestFromError_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("controller: %w", ErrAuthenticationFailed)

	assert.Same(t, ErrAuthenticationFailed, FromError(wrapped))
}

func TestWithDetail_DoesNotMutateBase(t *testing.T) {
	_ = ErrBadRequest.WithDetail("x")
	assert.Empty(t, ErrBadRequest.Detail)
}
