package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// FieldError is one backend validation violation.
type FieldError struct {
	Field         string `json:"field"`
	RejectedValue any    `json:"rejectedValue,omitempty"`
	Message       string `json:"message"`
}

// APIError is any non-2xx backend answer, carrying the body's error envelope
// when one was present.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// errorEnvelope mirrors the backend's ErrorResponse / ValidationErrorResponse.
type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string       `json:"code"`
		Message string       `json:"message"`
		Details string       `json:"details"`
		Fields  []FieldError `json:"fields"`
	} `json:"error"`
}

func errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
		apiErr.Fields = env.Error.Fields
	}
	return apiErr
}
