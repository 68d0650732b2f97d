package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/devhub/internal/auth"
	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/internal/errtrans"
	"github.com/aussiebroadwan/devhub/internal/session"
	"github.com/aussiebroadwan/devhub/pkg/httpx"
	"github.com/aussiebroadwan/devhub/pkg/slogx"
	"github.com/stretchr/testify/require"
)

var testUser = domain.User{
	ID:       7,
	Name:     "Ana Souza",
	Email:    "ana@example.com",
	Role:     domain.RoleStudent,
	IsActive: true,
}

// backend is a fake API. Protected endpoints accept only the bearer token
// in valid; /auth/refresh hands out refreshed.
type backend struct {
	t   *testing.T
	srv *httptest.Server

	mu        sync.Mutex
	valid     string
	refreshed string
	// refreshStatus other than 200 makes /auth/refresh fail with that status
	refreshStatus int
	refreshDelay  time.Duration
	// alwaysUnauthorized makes protected endpoints reject every token
	alwaysUnauthorized bool
	// gate, when set, holds rejected requests until it is closed
	gate chan struct{}

	authHeaders  []string
	bodies       []string
	refreshCalls atomic.Int32
	loginCalls   atomic.Int32
	protected    atomic.Int32
	rejected     atomic.Int32
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	b := &backend{
		t:             t,
		valid:         "access-1",
		refreshed:     "access-2",
		refreshStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.login)
	mux.HandleFunc("POST /auth/register", b.login)
	mux.HandleFunc("POST /auth/refresh", b.refresh)
	mux.HandleFunc("GET /projects", b.protect(func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "data": map[string]any{"pages": 1}})
	}))
	mux.HandleFunc("POST /projects", b.protect(func(w http.ResponseWriter, _ *http.Request, body []byte) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	}))

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) record(r *http.Request) []byte {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
	b.bodies = append(b.bodies, string(body))
	return body
}

func (b *backend) set(fn func(*backend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *backend) headers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders...)
}

func (b *backend) login(w http.ResponseWriter, r *http.Request) {
	b.loginCalls.Add(1)
	body := b.record(r)

	var req domain.LoginRequest
	_ = json.Unmarshal(body, &req)
	if req.Password != "secret" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"data": map[string]any{"message": "Invalid Credentials"}})
		return
	}

	b.mu.Lock()
	token := b.valid
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.AuthResponse{Token: token, RefreshToken: "refresh-1", User: testUser})
}

func (b *backend) refresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)
	b.record(r)

	b.mu.Lock()
	status, delay, next := b.refreshStatus, b.refreshDelay, b.refreshed
	b.mu.Unlock()

	time.Sleep(delay)

	if status != http.StatusOK {
		writeJSON(w, status, map[string]any{"message": "Invalid token"})
		return
	}

	b.mu.Lock()
	b.valid = next
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.AuthResponse{Token: next, RefreshToken: "refresh-2", User: testUser})
}

func (b *backend) protect(ok func(http.ResponseWriter, *http.Request, []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.protected.Add(1)
		body := b.record(r)

		b.mu.Lock()
		accepted := !b.alwaysUnauthorized && r.Header.Get("Authorization") == "Bearer "+b.valid
		gate := b.gate
		b.mu.Unlock()

		if !accepted {
			b.rejected.Add(1)
			if gate != nil {
				select {
				case <-gate:
				case <-time.After(2 * time.Second):
				}
			}
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
			return
		}

		ok(w, r, body)
	}
}

// fixture wires a Client and the protected pipeline against a backend.
type fixture struct {
	backend *backend
	store   *session.TokenStore
	state   *session.State
	client  *auth.Client
	api     *httpx.Client

	navigations atomic.Int32
}

func newFixture(t *testing.T, opts ...auth.Option) *fixture {
	t.Helper()

	b := newBackend(t)
	f := &fixture{
		backend: b,
		store:   session.NewTokenStore(session.NewMemoryKV(), session.WithLogger(slogx.Discard())),
		state:   session.NewState(nil),
	}

	logger := slogx.Discard()
	tr := errtrans.New()
	transport := httpx.NewTransport(b.srv.Client())

	public := httpx.NewClient(b.srv.URL, httpx.Chain(transport,
		httpx.EnrichErrors(tr, logger),
	))

	opts = append([]auth.Option{
		auth.WithLogger(logger),
		auth.WithNavigator(auth.NavigatorFunc(func(context.Context) { f.navigations.Add(1) })),
	}, opts...)
	f.client = auth.NewClient(public, f.store, f.state, opts...)

	f.api = httpx.NewClient(b.srv.URL, httpx.Chain(transport,
		httpx.EnrichErrors(tr, logger),
		auth.RecoverUnauthorized(f.client),
		auth.AttachCredentials(f.client),
		httpx.Logging(logger),
	))

	return f
}

// signIn stores a session directly, without calling the backend.
func (f *fixture) signIn(t *testing.T, access string) {
	t.Helper()

	user := testUser
	require.NoError(t, f.store.Save(context.Background(), domain.Session{
		AccessToken:  access,
		RefreshToken: "refresh-1",
		User:         &user,
	}))
	f.state.Publish(&user)
}

func (f *fixture) listProjects(ctx context.Context) error {
	return f.api.Do(ctx, http.MethodGet, "/projects", nil, nil, nil)
}
