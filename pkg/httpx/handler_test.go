package httpx_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/devhub/pkg/httpx"
	"github.com/aussiebroadwan/devhub/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func okResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var trace []string
	tag := func(name string) httpx.Interceptor {
		return func(next httpx.Handler) httpx.Handler {
			return func(req *http.Request) (*http.Response, error) {
				trace = append(trace, name+">")
				resp, err := next(req)
				trace = append(trace, "<"+name)
				return resp, err
			}
		}
	}

	final := func(req *http.Request) (*http.Response, error) {
		trace = append(trace, "send")
		return okResponse(""), nil
	}

	h := httpx.Chain(final, tag("outer"), nil, tag("inner"))
	req := httptest.NewRequest(http.MethodGet, "http://api.test/x", nil)

	resp, err := h(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"outer>", "inner>", "send", "<inner", "<outer"}, trace)
}

func TestTransport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = io.WriteString(w, `{"message":"ok","data":1}`)
		case "/nested":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"Validation failed","data":{"message":"Invalid email format"}}`)
		case "/data-array":
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":"Conflict","data":["x"]}`)
		case "/text":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream down")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	transport := httpx.NewTransport(srv.Client())
	send := func(path string) (*http.Response, error) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		return transport(req)
	}

	t.Run("2xx passes through", func(t *testing.T) {
		resp, err := send("/ok")
		require.NoError(t, err)

		var out struct {
			Message string `json:"message"`
		}
		require.NoError(t, httpx.DecodeJSON(resp, &out))
		require.Equal(t, "ok", out.Message)
	})

	t.Run("nested payload", func(t *testing.T) {
		_, err := send("/nested")
		e, ok := httpx.AsError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusBadRequest, e.Status)
		require.NotNil(t, e.Payload)
		require.Equal(t, "Validation failed", e.Payload.Message)
		require.Equal(t, "Invalid email format", e.Payload.DataMessage)
		require.Equal(t, http.MethodGet, e.Method)
	})

	t.Run("non-object data is ignored", func(t *testing.T) {
		_, err := send("/data-array")
		e, ok := httpx.AsError(err)
		require.True(t, ok)
		require.Equal(t, "Conflict", e.Payload.Message)
		require.Empty(t, e.Payload.DataMessage)
	})

	t.Run("plain text body", func(t *testing.T) {
		_, err := send("/text")
		e, ok := httpx.AsError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusBadGateway, e.Status)
		require.Nil(t, e.Payload)
		require.Equal(t, "upstream down", string(e.Body))
	})

	t.Run("status only", func(t *testing.T) {
		_, err := send("/missing")
		require.Equal(t, http.StatusNotFound, httpx.StatusOf(err))
	})
}

func TestTransportNoConnection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	req, err := http.NewRequest(http.MethodGet, addr+"/x", nil)
	require.NoError(t, err)

	_, err = httpx.NewTransport(nil)(req)
	e, ok := httpx.AsError(err)
	require.True(t, ok)
	require.Equal(t, httpx.StatusNoConnection, e.Status)
	require.NotEmpty(t, e.Message)
	require.NotNil(t, errors.Unwrap(e))
}

func TestClientDo(t *testing.T) {
	t.Parallel()

	var gotBody, gotQuery, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, `{"id":7}`)
	}))
	t.Cleanup(srv.Close)

	c := httpx.NewClient(srv.URL+"/", httpx.NewTransport(srv.Client()))

	var out struct {
		ID int `json:"id"`
	}
	err := c.Do(context.Background(), http.MethodPost, "/things", map[string][]string{"page": {"2"}}, map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	require.Equal(t, 7, out.ID)
	require.JSONEq(t, `{"a":"b"}`, gotBody)
	require.Equal(t, "page=2", gotQuery)
	require.Equal(t, "application/json", gotContentType)
}

func TestLoggingSetsRequestID(t *testing.T) {
	t.Parallel()

	var seen []string
	final := func(req *http.Request) (*http.Response, error) {
		seen = append(seen, req.Header.Get(httpx.HeaderRequestID))
		return okResponse(""), nil
	}

	h := httpx.Chain(final, httpx.Logging(slogx.Discard()))

	req := httptest.NewRequest(http.MethodGet, "http://api.test/x", nil)
	for range 2 {
		resp, err := h(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	require.Len(t, seen, 2)
	require.NotEmpty(t, seen[0])
	require.NotEqual(t, seen[0], seen[1])
	require.Empty(t, req.Header.Get(httpx.HeaderRequestID), "caller request must not be mutated")

	req.Header.Set(httpx.HeaderRequestID, "fixed")
	resp, err := h(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "fixed", seen[2])
}

func TestLoggingAttachesContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	final := func(req *http.Request) (*http.Response, error) {
		slogx.FromContext(req.Context()).Info("inner")
		return okResponse(""), nil
	}

	req := httptest.NewRequest(http.MethodGet, "http://api.test/projects", nil)
	req.Header.Set(httpx.HeaderRequestID, "req-1")

	resp, err := httpx.Chain(final, httpx.Logging(base))(req)
	require.NoError(t, err)
	resp.Body.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		require.Contains(t, line, `"req_id":"req-1"`)
		require.Contains(t, line, `"path":"/projects"`)
	}
	require.Contains(t, lines[0], `"msg":"inner"`)
	require.Contains(t, lines[1], `"msg":"http_request"`)
}
