package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/devhub/pkg/httpx"
)

// retryKey marks a request that is the resubmission after a refresh.
type retryKey struct{}

func withRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, retryKey{}, true)
}

// IsRetry reports whether ctx belongs to a resubmitted request.
func IsRetry(ctx context.Context) bool {
	retried, _ := ctx.Value(retryKey{}).(bool)
	return retried
}

// isCredentialEndpoint reports whether path signs a user in. Those requests
// never carry a bearer token.
func isCredentialEndpoint(path string) bool {
	return strings.HasSuffix(path, PathLogin) || strings.HasSuffix(path, PathRegister)
}

func isAuthEndpoint(path string) bool {
	return isCredentialEndpoint(path) || strings.HasSuffix(path, PathRefresh)
}

// AttachCredentials adds the stored access token as a bearer credential.
// Login and register requests, and requests that already carry an
// Authorization header, are passed on untouched.
func AttachCredentials(c *Client) httpx.Interceptor {
	return func(next httpx.Handler) httpx.Handler {
		return func(req *http.Request) (*http.Response, error) {
			if isCredentialEndpoint(req.URL.Path) || req.Header.Get("Authorization") != "" {
				return next(req)
			}

			token := c.AccessToken(req.Context())
			if token == "" {
				return next(req)
			}

			out := req.Clone(req.Context())
			out.Header.Set("Authorization", "Bearer "+token)
			return next(out)
		}
	}
}

// RecoverUnauthorized handles a 401 by refreshing the session once and
// resubmitting the request once with the new token. Without a refresh token
// the 401 is returned as is. If the refresh fails the user is logged out and
// the refresh error is returned instead of the 401. A refresh cut short by
// the caller's own context leaves the session alone. A resubmitted request
// is never recovered again.
func RecoverUnauthorized(c *Client) httpx.Interceptor {
	return func(next httpx.Handler) httpx.Handler {
		return func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			if isAuthEndpoint(req.URL.Path) || IsRetry(ctx) {
				return next(req)
			}

			req, err := replayable(req)
			if err != nil {
				return nil, err
			}

			resp, err := next(req)
			if err == nil || httpx.StatusOf(err) != http.StatusUnauthorized {
				return resp, err
			}

			if c.RefreshToken(ctx) == "" {
				return nil, err
			}

			s, refreshErr := c.Refresh(ctx)
			if refreshErr != nil {
				// A caller that gave up says nothing about the session
				if ctx.Err() != nil {
					return nil, refreshErr
				}
				c.logger.WarnContext(ctx, "session_refresh_failed", "error", refreshErr)
				_ = c.Logout(ctx)
				return nil, refreshErr
			}

			retry, err := resubmission(req, s.AccessToken)
			if err != nil {
				return nil, err
			}

			c.logger.DebugContext(ctx, "request_resubmitted", "path", req.URL.Path)
			return next(retry)
		}
	}
}

// replayable makes sure the body of req can be read a second time.
func replayable(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return req, nil
	}

	buf, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}

	out := req.Clone(req.Context())
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	out.Body, _ = out.GetBody()
	return out, nil
}

// resubmission clones req, marked as a retry, carrying token.
func resubmission(req *http.Request, token string) (*http.Request, error) {
	out := req.Clone(withRetry(req.Context()))

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("replay request body: %w", err)
		}
		out.Body = body
	}

	out.Header.Set("Authorization", "Bearer "+token)
	return out, nil
}
