package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultErrorMessage is shown when the backend gave no message.
const DefaultErrorMessage = "An error occurred"

var listingLimitPhrases = []string{
	"already have an active listing",
	"active listing",
	"archive or fulfill",
}

// APIError is an error body returned by the marketplace REST backend.
// The backend sends message either as a string or as a list of strings.
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Message    []string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("APIError[%d]: %s", e.StatusCode, ErrorMessage(e))
}

type apiErrorBody struct {
	StatusCode int             `json:"statusCode"`
	Message    json.RawMessage `json:"message"`
	Error      string          `json:"error"`
}

// DecodeAPIError builds an APIError from a non-2xx response body. httpStatus
// is used when the body carries no statusCode. Undecodable bodies keep only
// the status.
func DecodeAPIError(httpStatus int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: httpStatus}

	var raw apiErrorBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}
	if raw.StatusCode != 0 {
		apiErr.StatusCode = raw.StatusCode
	}

	if len(raw.Message) > 0 {
		var single string
		var many []string
		switch {
		case json.Unmarshal(raw.Message, &single) == nil && single != "":
			apiErr.Message = []string{single}
		case json.Unmarshal(raw.Message, &many) == nil:
			apiErr.Message = many
		}
	}
	if len(apiErr.Message) == 0 && raw.Error != "" {
		apiErr.Message = []string{raw.Error}
	}
	return apiErr
}

// ErrorMessage joins the backend messages with ", ".
func ErrorMessage(apiErr *APIError) string {
	if apiErr == nil || len(apiErr.Message) == 0 {
		return DefaultErrorMessage
	}
	joined := strings.Join(apiErr.Message, ", ")
	if joined == "" {
		return DefaultErrorMessage
	}
	return joined
}

// IsListingLimitError reports the "one active listing per owner" rejection.
func IsListingLimitError(apiErr *APIError) bool {
	if apiErr == nil || apiErr.StatusCode != 400 {
		return false
	}
	msg := strings.ToLower(strings.Join(apiErr.Message, " "))
	for _, phrase := range listingLimitPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// ClassifyAPIError returns the marketplace error code, or "" when the error
// has no specific code.
func ClassifyAPIError(apiErr *APIError) ErrorCode {
	if apiErr == nil {
		return ""
	}
	if IsListingLimitError(apiErr) {
		return ErrCodeListingLimit
	}
	switch apiErr.StatusCode {
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeNotFound
	case 400:
		return ErrCodeValidation
	default:
		return ""
	}
}
