package ga4

import (
	"encoding/json"
	"fmt"
)

// APIError represents a rejection from the GA4 REST APIs. The HTTP status
// and the upstream message pass through to the caller unaltered.
type APIError struct {
	StatusCode int
	Status     string // e.g. "PERMISSION_DENIED"
	Message    string
	Body       string // raw response body, kept for diagnostics
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GA4 API error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("GA4 API error (HTTP %d)", e.StatusCode)
}

// googleErrorBody is the standard Google API error envelope
type googleErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// newAPIError builds an APIError from a non-2xx response body
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
	var parsed googleErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Message = parsed.Error.Message
		apiErr.Status = parsed.Error.Status
	} else {
		apiErr.Message = string(body)
	}
	return apiErr
}
