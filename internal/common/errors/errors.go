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

// Listing lookup and worker input errors.
const (
	ErrCodeListingNotFound       ErrorCode = "LISTING_NOT_FOUND"
	ErrCodeInvalidListingID      ErrorCode = "INVALID_LISTING_ID"
	ErrCodeListingSourceFailed   ErrorCode = "LISTING_SOURCE_FAILED"
	ErrCodeInvalidCoordinates    ErrorCode = "INVALID_COORDINATES"
	ErrCodeInvalidVibeTag        ErrorCode = "INVALID_VIBE_TAG"
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeParseError            ErrorCode = "PARSE_ERROR"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Marketplace backend codes, see ClassifyAPIError.
const (
	ErrCodeListingLimit      ErrorCode = "LISTING_LIMIT"
	ErrCodeProfileIncomplete ErrorCode = "PROFILE_INCOMPLETE"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
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

// NewListingNotFoundError creates a non-retryable lookup error.
func NewListingNotFoundError(listingID string) *StandardError {
	return newError(ErrCodeListingNotFound, "Listing not found", fmt.Sprintf("listingId: %s", listingID), false)
}

// NewInvalidListingIDError is returned before any source is queried.
func NewInvalidListingIDError(listingID string) *StandardError {
	return newError(ErrCodeInvalidListingID, "Listing id is not a valid UUID", fmt.Sprintf("listingId: %s", listingID), false)
}

// NewListingSourceFailedError wraps a transient Postgres or backend failure.
func NewListingSourceFailedError(source string, err error) *StandardError {
	return newError(ErrCodeListingSourceFailed, "Listing source error",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true)
}

// NewInvalidCoordinatesError reports a reference point outside lat/lng bounds.
func NewInvalidCoordinatesError(lat, lng float64) *StandardError {
	return newError(ErrCodeInvalidCoordinates, "Reference point out of range",
		fmt.Sprintf("latitude: %v, longitude: %v", lat, lng), false)
}

// NewInvalidVibeTagError reports a seeker tag outside the known set.
func NewInvalidVibeTagError(tag string) *StandardError {
	return newError(ErrCodeInvalidVibeTag, "Unknown vibe tag", fmt.Sprintf("tag: %s", tag), false)
}

// NewInputValidationFailedError carries schema violations.
func NewInputValidationFailedError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Job input validation failed", details, false)
}

// NewParseError reports job variables that are not valid JSON for the task.
func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false)
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Elasticsearch query timeout", fmt.Sprintf("index: %s", index), true)
}

// NewAPIError maps a classified marketplace error to a StandardError.
// Only unclassified server-side failures are retryable.
func NewAPIError(apiErr *APIError) *StandardError {
	code := ClassifyAPIError(apiErr)
	retryable := false
	if code == "" {
		code = ErrCodeListingSourceFailed
		retryable = apiErr.StatusCode >= 500
	}
	stdErr := newError(code, ErrorMessage(apiErr), fmt.Sprintf("status: %d", apiErr.StatusCode), retryable)
	stdErr.Metadata = map[string]interface{}{"statusCode": apiErr.StatusCode}
	return stdErr
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. BPMN Mapping
// ==========================

// BPMNErrorMapping maps internal codes to the error codes caught by boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeListingNotFound:       "LISTING_NOT_FOUND",
	ErrCodeInvalidListingID:      "INVALID_LISTING_ID",
	ErrCodeListingSourceFailed:   "LISTING_SOURCE_FAILED",
	ErrCodeInvalidCoordinates:    "INVALID_COORDINATES",
	ErrCodeInvalidVibeTag:        "INVALID_VIBE_TAG",
	ErrCodeInputValidationFailed: "INPUT_VALIDATION_FAILED",
	ErrCodeParseError:            "INPUT_VALIDATION_FAILED",
	ErrCodeSearchQueryFailed:     "SEARCH_QUERY_FAILED",
	ErrCodeSearchTimeout:         "SEARCH_TIMEOUT",
	ErrCodeListingLimit:          "LISTING_LIMIT",
	ErrCodeProfileIncomplete:     "PROFILE_INCOMPLETE",
	ErrCodeValidation:            "VALIDATION_ERROR",
	ErrCodeUnauthorized:          "UNAUTHORIZED",
	ErrCodeNotFound:              "LISTING_NOT_FOUND",
}

// GetRetryCount returns how many retries a code gets before it is thrown.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeListingSourceFailed,
		ErrCodeSearchQueryFailed:
		return 3
	case ErrCodeSearchTimeout:
		return 2
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

// IsRetryableErrorCode reports whether the code has any retries.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for log dashboards.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "LISTING"):
		return "LISTING"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case code == ErrCodeUnauthorized || code == ErrCodeProfileIncomplete:
		return "ACCOUNT"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || code == ErrCodeParseError:
		return "VALIDATION"
	case code == ErrCodeNotFound:
		return "LISTING"
	default:
		return "OTHER"
	}
}
