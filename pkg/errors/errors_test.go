package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeSuccess:            http.StatusOK,
		CodeInvalidParam:       http.StatusBadRequest,
		CodeSceneInvalid:       http.StatusUnprocessableEntity,
		CodeRequestInvalid:     http.StatusUnprocessableEntity,
		CodeTooManyRequests:    http.StatusTooManyRequests,
		CodeAssetUnavailable:   http.StatusInternalServerError,
		CodeLLMCallFailed:      http.StatusInternalServerError,
		CodeUnknown:            http.StatusInternalServerError,
		CodeServiceUnavailable: http.StatusServiceUnavailable,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, "code %s", code)
	}
}

func TestAsAppErrorUnwrapsChain(t *testing.T) {
	base := stderrors.New("boom")
	appErr := Wrap(base, CodeLLMCallFailed, "llm call failed")
	wrapped := fmt.Errorf("outer: %w", appErr)

	got := AsAppError(wrapped)
	assert.Same(t, appErr, got)
	assert.True(t, IsAppError(wrapped))
	assert.ErrorIs(t, got, base)
	assert.Equal(t, "[4005] llm call failed: boom", got.Error())
}

func TestAsAppErrorWrapsPlainError(t *testing.T) {
	got := AsAppError(stderrors.New("plain"))
	assert.Equal(t, CodeUnknown, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	assert.False(t, IsAppError(stderrors.New("plain")))
}
