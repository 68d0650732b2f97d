package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client issues JSON requests against a base URL through a Handler.
type Client struct {
	BaseURL string
	Handler Handler
}

// NewClient returns a Client for baseURL sending through h.
func NewClient(baseURL string, h Handler) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Handler: h,
	}
}

// URL builds a complete URL by appending path (and query) to the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// NewRequest builds a request with body encoded as JSON. The body is held
// in memory so the request can be replayed.
func (c *Client) NewRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// Do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) Do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) error {
	req, err := c.NewRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.Handler(req)
	if err != nil {
		return err
	}

	return DecodeJSON(resp, out)
}

// DecodeJSON decodes a JSON response body into target and closes it. A nil
// target or an empty body only drains the response.
func DecodeJSON(resp *http.Response, target any) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if target == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
