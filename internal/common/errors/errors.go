// Package errors provides standardized error handling for the essay pipeline and its BPMN workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input guards.
	ErrCodePromptEmpty    ErrorCode = "PROMPT_EMPTY"
	ErrCodeEssayTooShort  ErrorCode = "ESSAY_TOO_SHORT"
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeParseError     ErrorCode = "PARSE_ERROR"
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_VALIDATION_FAILED"

	// Session lifecycle.
	ErrCodeAnalysisInProgress ErrorCode = "ANALYSIS_IN_PROGRESS"
	ErrCodeAnalysisAbandoned  ErrorCode = "ANALYSIS_ABANDONED"
	ErrCodeNoAnalysis         ErrorCode = "NO_ANALYSIS"

	// Infrastructure.
	ErrCodeCacheUnavailable  ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeBrokerUnavailable ErrorCode = "BROKER_UNAVAILABLE"
	ErrCodeAnalysisTimeout   ErrorCode = "ANALYSIS_TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so sentinels like ErrEssayTooShort work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrPromptEmpty        = &StandardError{Code: ErrCodePromptEmpty}
	ErrEssayTooShort      = &StandardError{Code: ErrCodeEssayTooShort}
	ErrAnalysisInProgress = &StandardError{Code: ErrCodeAnalysisInProgress}
	ErrAnalysisAbandoned  = &StandardError{Code: ErrCodeAnalysisAbandoned}
	ErrNoAnalysis         = &StandardError{Code: ErrCodeNoAnalysis}
	ErrAnalysisTimeout    = &StandardError{Code: ErrCodeAnalysisTimeout}
	ErrCacheUnavailable   = &StandardError{Code: ErrCodeCacheUnavailable}
)

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewPromptEmptyError is returned when the prompt is blank after trimming.
func NewPromptEmptyError() *StandardError {
	return &StandardError{
		Code:      ErrCodePromptEmpty,
		Message:   "Essay prompt is required",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEssayTooShortError is returned when the essay is below the minimum character count.
func NewEssayTooShortError(length, minimum int) *StandardError {
	return &StandardError{
		Code:      ErrCodeEssayTooShort,
		Message:   fmt.Sprintf("Write at least %d characters for meaningful feedback", minimum),
		Details:   fmt.Sprintf("length: %d, minimum: %d", length, minimum),
		Retryable: false,
		Metadata:  map[string]interface{}{"length": length, "minimum": minimum},
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError wraps a job payload decoding failure.
func NewParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseError,
		Message:   "Job variables could not be decoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSchemaValidationError reports the schema violations of a job payload.
func NewSchemaValidationError(violations []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaMismatch,
		Message:   "Job variables do not match the input schema",
		Details:   strings.Join(violations, "; "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisInProgressError describes a submission rejected because a run is already in flight.
func NewAnalysisInProgressError(runID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisInProgress,
		Message:   "An analysis is already running for this session",
		Details:   fmt.Sprintf("runId: %s", runID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisAbandonedError is returned to waiters whose run was reset away.
func NewAnalysisAbandonedError(runID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisAbandoned,
		Message:   "Analysis was abandoned before completion",
		Details:   fmt.Sprintf("runId: %s", runID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoAnalysisError is returned when waiting with nothing in flight and no result held.
func NewNoAnalysisError() *StandardError {
	return &StandardError{
		Code:      ErrCodeNoAnalysis,
		Message:   "No analysis has been started",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError wraps a Redis failure. Callers log it and recompute.
func NewCacheUnavailableError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   fmt.Sprintf("Result cache %s failed", op),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewBrokerUnavailableError wraps a Zeebe gateway failure.
func NewBrokerUnavailableError(msg string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrokerUnavailable,
		Message:   msg,
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewAnalysisTimeoutError wraps a context deadline hit while analyzing.
func NewAnalysisTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisTimeout,
		Message:   "Essay analysis timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 4. Classification helpers
// ==========================

// BPMNErrorMapping maps internal codes onto the error codes modeled in the BPMN diagrams.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodePromptEmpty:        "INVALID_INPUT",
	ErrCodeEssayTooShort:      "INVALID_INPUT",
	ErrCodeInvalidInput:       "INVALID_INPUT",
	ErrCodeParseError:         "INVALID_INPUT",
	ErrCodeSchemaMismatch:     "INVALID_INPUT",
	ErrCodeAnalysisInProgress: "ANALYSIS_IN_PROGRESS",
	ErrCodeAnalysisAbandoned:  "ANALYSIS_ABANDONED",
	ErrCodeCacheUnavailable:   "CACHE_UNAVAILABLE",
	ErrCodeAnalysisTimeout:    "ANALYSIS_TIMEOUT",
}

// GetRetryCount returns how many job retries a code is worth.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCacheUnavailable, ErrCodeBrokerUnavailable:
		return 3
	case ErrCodeAnalysisTimeout, ErrCodeAnalysisInProgress:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError for the workflow engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// IsRetryableErrorCode reports whether a code should be retried by the engine.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsInvalidInput reports whether err belongs to the InvalidInput family.
func IsInvalidInput(err error) bool {
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) {
		return false
	}
	return GetErrorCategory(stdErr.Code) == "VALIDATION"
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodePromptEmpty, ErrCodeEssayTooShort, ErrCodeInvalidInput, ErrCodeParseError, ErrCodeSchemaMismatch:
		return "VALIDATION"
	case ErrCodeAnalysisInProgress, ErrCodeAnalysisAbandoned, ErrCodeNoAnalysis:
		return "SESSION"
	case ErrCodeCacheUnavailable:
		return "CACHE"
	case ErrCodeBrokerUnavailable:
		return "EXTERNAL_SERVICE"
	case ErrCodeAnalysisTimeout:
		return "TIMEOUT"
	default:
		return "OTHER"
	}
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
