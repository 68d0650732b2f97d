package httpx

import (
	"io"
	"net/http"
	"time"
)

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 64 << 10

// DefaultTimeout is the http.Client timeout used by NewHTTPClient.
const DefaultTimeout = 10 * time.Second

// NewHTTPClient returns the http.Client used by the terminal transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewTransport returns the terminal Handler. 2xx responses are returned
// as-is; any other status is drained into an *Error, and transport failures
// become an *Error with StatusNoConnection.
func NewTransport(client *http.Client) Handler {
	if client == nil {
		client = NewHTTPClient(0)
	}

	return func(req *http.Request) (*http.Response, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, &Error{
				Status:  StatusNoConnection,
				Method:  req.Method,
				URL:     req.URL.Redacted(),
				Message: err.Error(),
				Err:     err,
			}
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newStatusError(req, resp.StatusCode, body)
	}
}
