package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/devhub/pkg/idx"
	"github.com/aussiebroadwan/devhub/pkg/slogx"
)

// HeaderRequestID carries the per-attempt request identifier.
const HeaderRequestID = "X-Request-ID"

// NewRequestID returns a lexicographically sortable request identifier.
func NewRequestID() string {
	return idx.New().String()
}

// Logging tags every attempt with an X-Request-ID, attaches a contextual
// logger to the request context and logs the outcome.
func Logging(base *slog.Logger) Interceptor {
	if base == nil {
		base = slog.Default()
	}

	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()

			reqID := req.Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = NewRequestID()
			}

			ctx := slogx.WithContext(req.Context(), base.With(
				"method", req.Method,
				"path", req.URL.Path,
			))
			ctx = slogx.WithRequestID(ctx, reqID)
			logger := slogx.FromContext(ctx)

			out := req.Clone(ctx)
			out.Header.Set(HeaderRequestID, reqID)

			resp, err := next(out)

			duration := time.Since(start).Milliseconds()
			if err != nil {
				logger.Debug("http_request",
					"status", StatusOf(err),
					"duration_ms", duration,
					"error", err,
				)
				return nil, err
			}

			logger.Debug("http_request",
				"status", resp.StatusCode,
				"duration_ms", duration,
			)
			return resp, nil
		}
	}
}
