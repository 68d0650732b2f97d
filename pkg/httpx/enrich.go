package httpx

import (
	"log/slog"
	"net/http"
)

// Translator turns a failed request into a user-facing message.
type Translator interface {
	// Extract picks the most specific message available on e and translates it.
	Extract(e *Error) string

	// Connectivity is the message shown when no response was received.
	Connectivity() string
}

// EnrichErrors is the last stage every failure passes through on its way
// out: it converts the failure into an *Error (if it is not one already) and
// attaches TranslatedMessage and OriginalMessage. Status, payload and body
// are left as they were.
func EnrichErrors(tr Translator, logger *slog.Logger) Interceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next Handler) Handler {
		return func(req *http.Request) (*http.Response, error) {
			resp, err := next(req)
			if err == nil {
				return resp, nil
			}

			enriched := Enrich(tr, req, err)
			logger.WarnContext(req.Context(), "http_error",
				"method", enriched.Method,
				"url", enriched.URL,
				"status", enriched.Status,
				"message", enriched.OriginalMessage,
				"translated", enriched.TranslatedMessage,
			)

			return nil, enriched
		}
	}
}

// Enrich returns an enriched copy of err. Errors that are already enriched
// are returned unchanged.
func Enrich(tr Translator, req *http.Request, err error) *Error {
	base := wrapError(req, err)
	if base.Enriched() {
		return base
	}

	out := *base
	out.OriginalMessage = base.message()
	out.TranslatedMessage = tr.Extract(&out)
	if out.Status == StatusNoConnection {
		out.TranslatedMessage = tr.Connectivity()
	}

	return &out
}
