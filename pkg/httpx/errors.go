package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	// StatusNoConnection is the status of a request that never got a response.
	StatusNoConnection = 0

	// StatusUnset is the status of a failure that happened outside the
	// transport (no request was sent, or the error came from local code).
	StatusUnset = -1
)

// ErrorPayload is the error body convention of the backend:
// {"message": "...", "data": {"message": "..."}}.
type ErrorPayload struct {
	Message     string
	DataMessage string
}

// Error is a failed request as observed by callers of the pipeline.
type Error struct {
	// Status is the HTTP status code, StatusNoConnection or StatusUnset
	Status int

	Method string
	URL    string

	// Payload is the decoded error body, nil when the body was not a JSON object
	Payload *ErrorPayload

	// Body is the raw response body (possibly truncated)
	Body []byte

	// Message is the transport-level message (connection failures, local errors)
	Message string

	// TranslatedMessage is the user-facing message attached by EnrichErrors
	TranslatedMessage string

	// OriginalMessage is the untranslated message the translation was based on
	OriginalMessage string

	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	msg := e.OriginalMessage
	if msg == "" {
		msg = e.message()
	}

	switch {
	case e.Status > 0 && msg != "":
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Status, http.StatusText(e.Status), msg)
	case e.Status > 0:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
	case e.Method != "":
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, msg)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Enriched reports whether EnrichErrors has already processed e.
func (e *Error) Enriched() bool { return e.TranslatedMessage != "" }

// message returns the most specific untranslated message available.
func (e *Error) message() string {
	if e.Payload != nil {
		if e.Payload.DataMessage != "" {
			return e.Payload.DataMessage
		}
		if e.Payload.Message != "" {
			return e.Payload.Message
		}
	}
	return e.Message
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or StatusUnset.
func StatusOf(err error) int {
	if e, ok := AsError(err); ok {
		return e.Status
	}
	return StatusUnset
}

// UserMessage returns the translated message of an enriched error, falling
// back to err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := AsError(err); ok && e.TranslatedMessage != "" {
		return e.TranslatedMessage
	}
	return err.Error()
}

// parseErrorPayload decodes the backend error convention. It returns nil
// when the body is not a JSON object. A "data" member that is not an object
// is ignored.
func parseErrorPayload(body []byte) *ErrorPayload {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil
	}

	var raw struct {
		Message json.RawMessage `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	payload := &ErrorPayload{Message: stringValue(raw.Message)}

	if data := bytes.TrimSpace(raw.Data); len(data) > 0 && data[0] == '{' {
		var nested struct {
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal(data, &nested); err == nil {
			payload.DataMessage = stringValue(nested.Message)
		}
	}

	return payload
}

// stringValue returns raw as a string when it is a JSON string.
func stringValue(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// newStatusError builds the error for a completed non-2xx response.
func newStatusError(req *http.Request, status int, body []byte) *Error {
	return &Error{
		Status:  status,
		Method:  req.Method,
		URL:     req.URL.Redacted(),
		Payload: parseErrorPayload(body),
		Body:    body,
	}
}

// wrapError converts any error into an *Error bound to req.
func wrapError(req *http.Request, err error) *Error {
	if e, ok := AsError(err); ok {
		return e
	}

	w := &Error{
		Status:  StatusUnset,
		Message: err.Error(),
		Err:     err,
	}
	if req != nil {
		w.Method = req.Method
		w.URL = req.URL.Redacted()
	}
	return w
}
