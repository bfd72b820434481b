package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// UnreachableMessage is shown when the backend did not answer at all.
const UnreachableMessage = "Network error: Unable to connect to server. Please check if the backend is running."

var ErrUnreachable = errors.New("backend unreachable")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "backend returned " + http.StatusText(e.StatusCode)
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	if json.Valid(raw) {
		apiErr.Body = json.RawMessage(raw)
	}

	var body struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	// NestJS validation errors carry a list of messages.
	var single string
	var many []string
	switch {
	case json.Unmarshal(body.Message, &single) == nil && single != "":
		apiErr.Message = single
	case json.Unmarshal(body.Message, &many) == nil && len(many) > 0:
		apiErr.Message = strings.Join(many, "; ")
	default:
		apiErr.Message = body.Error
	}
	return apiErr
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Message returns the text to show an admin for err.
func Message(err error, fallback string) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrUnreachable):
		return UnreachableMessage
	default:
		return fallback
	}
}
