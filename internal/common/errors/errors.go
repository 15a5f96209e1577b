// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
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
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeSurveyInvalid ErrorCode = "SURVEY_INVALID"

	ErrCodeScoreLookupFailed ErrorCode = "SCORE_LOOKUP_FAILED"
	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeScoringTimeout    ErrorCode = "SCORING_TIMEOUT"

	ErrCodeResultStoreFailed ErrorCode = "RESULT_STORE_FAILED"
	ErrCodeResultLoadFailed  ErrorCode = "RESULT_LOAD_FAILED"

	ErrCodeShareSendFailed ErrorCode = "SHARE_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable job variable error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job input failed validation", details, false)
}

// NewSurveyInvalidError creates a non-retryable survey response error.
func NewSurveyInvalidError(details string) *StandardError {
	return newError(ErrCodeSurveyInvalid, "Survey responses are malformed", details, false)
}

// NewScoreLookupFailedError creates a retryable aptitude score lookup error.
func NewScoreLookupFailedError(testID string, err error) *StandardError {
	return newError(ErrCodeScoreLookupFailed, "Aptitude score lookup failed",
		fmt.Sprintf("testId: %s, error: %s", testID, err.Error()), true)
}

// NewCatalogLoadFailedError creates a retryable program catalog error.
func NewCatalogLoadFailedError(err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Program catalog could not be loaded", err.Error(), true)
}

// NewScoringTimeoutError creates a retryable timeout for a recommendation run.
func NewScoringTimeoutError(testID string) *StandardError {
	return newError(ErrCodeScoringTimeout, "Recommendation run timed out", fmt.Sprintf("testId: %s", testID), true)
}

// NewResultStoreFailedError creates a retryable result persistence error.
func NewResultStoreFailedError(studentID string, err error) *StandardError {
	return newError(ErrCodeResultStoreFailed, "Saving recommendation results failed",
		fmt.Sprintf("studentId: %s, error: %s", studentID, err.Error()), true)
}

// NewResultLoadFailedError creates a retryable saved-result read error.
func NewResultLoadFailedError(studentID string, err error) *StandardError {
	return newError(ErrCodeResultLoadFailed, "Loading saved results failed",
		fmt.Sprintf("studentId: %s, error: %s", studentID, err.Error()), true)
}

// NewShareSendFailedError creates a retryable delivery error for a share message.
func NewShareSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeShareSendFailed, "Share message delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError("BUSINESS_RULE_VIOLATION", message, details, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the guidance process models.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:      "INVALID_INPUT",
	ErrCodeSurveyInvalid:     "SURVEY_INVALID",
	ErrCodeScoreLookupFailed: "SCORE_LOOKUP_FAILED",
	ErrCodeCatalogLoadFailed: "CATALOG_LOAD_FAILED",
	ErrCodeScoringTimeout:    "SCORING_TIMEOUT",
	ErrCodeResultStoreFailed: "RESULT_STORE_FAILED",
	ErrCodeResultLoadFailed:  "RESULT_LOAD_FAILED",
	ErrCodeShareSendFailed:   "SHARE_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeScoreLookupFailed,
		ErrCodeCatalogLoadFailed,
		ErrCodeResultStoreFailed,
		ErrCodeResultLoadFailed,
		ErrCodeShareSendFailed,
		"EXTERNAL_SERVICE_ERROR":
		return 3

	case ErrCodeScoringTimeout, "TIMEOUT_ERROR":
		return 2

	default:
		return 0 // business and validation errors
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SCORE") || strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "SCORING"):
		return "SCORING"
	case strings.Contains(codeStr, "RESULT"):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "SHARE"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
