package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("submit essay: %w", NewEssayTooShortError(42, 100))

	assert.True(t, stderrors.Is(err, ErrEssayTooShort))
	assert.False(t, stderrors.Is(err, ErrPromptEmpty))
	assert.Contains(t, err.Error(), "ESSAY_TOO_SHORT")
	assert.Contains(t, err.Error(), "length: 42, minimum: 100")
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := NewCacheUnavailableError("get", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, err.Retryable)
}

func TestIsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"prompt empty", NewPromptEmptyError(), true},
		{"essay too short", NewEssayTooShortError(10, 100), true},
		{"schema", NewSchemaValidationError([]string{"essay is required"}), true},
		{"parse", NewParseError(stderrors.New("unexpected EOF")), true},
		{"cache", NewCacheUnavailableError("set", stderrors.New("x")), false},
		{"plain error", stderrors.New("plain"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInvalidInput(tt.err))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("invalid input is thrown without retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewEssayTooShortError(5, 100))
		assert.Equal(t, "INVALID_INPUT", bpmn.Code)
		assert.Equal(t, 0, bpmn.Retries)
		assert.False(t, bpmn.Retryable)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "ESSAY_TOO_SHORT", vars["originalErrorCode"])
		assert.Equal(t, "INVALID_INPUT", vars["errorCode"])
	})

	t.Run("cache failure keeps its retry budget", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewCacheUnavailableError("get", stderrors.New("timeout")))
		assert.Equal(t, "CACHE_UNAVAILABLE", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
	})

	t.Run("unmapped code falls back to itself", func(t *testing.T) {
		bpmn := ConvertToBPMNError(Normalize(stderrors.New("kaboom")))
		assert.Equal(t, string(ErrCodeInternal), bpmn.Code)
	})
}

func TestNormalize(t *testing.T) {
	original := NewPromptEmptyError()
	wrapped := fmt.Errorf("classify: %w", original)

	assert.Same(t, original, Normalize(wrapped))

	plain := Normalize(stderrors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestShouldRetryAndRetriesFor(t *testing.T) {
	cacheErr := NewCacheUnavailableError("get", stderrors.New("x"))
	assert.True(t, ShouldRetry(cacheErr, 3))
	assert.False(t, ShouldRetry(cacheErr, 0))
	assert.False(t, ShouldRetry(NewPromptEmptyError(), 3))

	bpmn := ConvertToBPMNError(cacheErr)
	assert.Equal(t, int32(1), retriesFor(bpmn, 2))
	assert.Equal(t, int32(3), retriesFor(bpmn, 10))
	assert.Equal(t, int32(0), retriesFor(bpmn, 1))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeEssayTooShort))
	assert.Equal(t, "SESSION", GetErrorCategory(ErrCodeAnalysisAbandoned))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeCacheUnavailable))
	assert.Equal(t, "TIMEOUT", GetErrorCategory(ErrCodeAnalysisTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory("SOMETHING_ELSE"))
	assert.True(t, IsRetryableErrorCode(ErrCodeCacheUnavailable))
	assert.True(t, IsRetryableErrorCode(ErrCodeBrokerUnavailable))
	assert.False(t, IsRetryableErrorCode(ErrCodePromptEmpty))
}
