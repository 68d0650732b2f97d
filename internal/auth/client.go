// Package auth owns the session lifecycle: it signs users in and out,
// refreshes tokens, and provides the interceptors that attach credentials
// to outgoing requests and recover from expired ones.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/internal/session"
	"github.com/aussiebroadwan/devhub/pkg/httpx"
	"github.com/aussiebroadwan/devhub/pkg/jwtx"
	"golang.org/x/sync/singleflight"
)

// Endpoints that establish a session.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathRefresh  = "/auth/refresh"
)

// Client performs the auth calls and keeps the Token Store and the session
// State in step.
type Client struct {
	api    *httpx.Client
	store  *session.TokenStore
	state  *session.State
	nav    Navigator
	logger *slog.Logger
	now    func() time.Time

	dedupe  bool
	refresh singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithNavigator sets where Logout and RequireAuth send the user.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.nav = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock overrides the time source used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithRefreshDedupe controls whether concurrent Refresh calls share one
// request. When off, every caller sends its own and the last response to
// arrive wins.
func WithRefreshDedupe(on bool) Option {
	return func(c *Client) { c.dedupe = on }
}

// NewClient returns a Client sending auth calls through api. api must not
// carry the AttachCredentials or RecoverUnauthorized interceptors.
func NewClient(api *httpx.Client, store *session.TokenStore, state *session.State, opts ...Option) *Client {
	c := &Client{
		api:    api,
		store:  store,
		state:  state,
		nav:    nopNavigator{},
		logger: slog.Default(),
		now:    time.Now,
		dedupe: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the session state the client publishes to.
func (c *Client) State() *session.State { return c.state }

// Restore publishes the stored user, if any, to the session state.
func (c *Client) Restore(ctx context.Context) error {
	s, err := c.store.Read(ctx)
	if err != nil {
		return err
	}
	c.state.Publish(s.User)
	return nil
}

// Login signs in with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	return c.authenticate(ctx, PathLogin, domain.LoginRequest{Email: email, Password: password})
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.Session, error) {
	return c.authenticate(ctx, PathRegister, req)
}

// Refresh exchanges the stored refresh token for a new session. It fails
// with ErrNoRefreshToken, without a network call, when none is stored. A
// failed refresh leaves the stored session as it was.
func (c *Client) Refresh(ctx context.Context) (domain.Session, error) {
	token := c.RefreshToken(ctx)
	if token == "" {
		return domain.Session{}, ErrNoRefreshToken
	}

	if !c.dedupe {
		return c.authenticate(ctx, PathRefresh, domain.RefreshRequest{RefreshToken: token})
	}

	// Callers holding the same refresh token share one call. It runs detached
	// from any single caller so that one caller giving up does not fail the
	// others.
	ch := c.refresh.DoChan(token, func() (any, error) {
		return c.authenticate(context.WithoutCancel(ctx), PathRefresh, domain.RefreshRequest{RefreshToken: token})
	})

	select {
	case <-ctx.Done():
		return domain.Session{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Session{}, res.Err
		}
		return res.Val.(domain.Session), nil
	}
}

// Logout clears the stored session and the session state, then navigates
// to login. The state is reset and navigation happens even when clearing
// the store fails; that error is returned. The store is cleared even when
// ctx is already done.
func (c *Client) Logout(ctx context.Context) error {
	err := c.store.Clear(context.WithoutCancel(ctx))
	if err != nil {
		c.logger.ErrorContext(ctx, "session_clear_failed", "error", err)
	}

	c.state.Publish(nil)
	c.nav.ToLogin(ctx)
	return err
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (domain.Session, error) {
	var resp domain.AuthResponse
	if err := c.api.Do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return domain.Session{}, err
	}

	s := resp.Session()
	if err := c.store.Save(ctx, s); err != nil {
		return domain.Session{}, err
	}
	c.state.Publish(s.User)

	c.logger.InfoContext(ctx, "session_established", "path", path, "user_id", s.User.ID)
	return s, nil
}

// IsAuthenticated reports whether an access token is stored.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.AccessToken(ctx) != ""
}

// AccessToken returns the stored access token, or "" when signed out.
func (c *Client) AccessToken(ctx context.Context) string {
	return c.read(ctx).AccessToken
}

// RefreshToken returns the stored refresh token, or "" when signed out.
func (c *Client) RefreshToken(ctx context.Context) string {
	return c.read(ctx).RefreshToken
}

// read returns the stored session. Driver failures count as signed out.
func (c *Client) read(ctx context.Context) domain.Session {
	s, err := c.store.Read(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "session_read_failed", "error", err)
		return domain.Session{}
	}
	return s
}

// Decode returns the claims of token, or nil when it cannot be read.
func (c *Client) Decode(token string) *jwtx.Claims {
	return jwtx.Decode(token)
}

// IsExpired reports whether token is expired. Unreadable tokens and tokens
// without an expiry count as expired.
func (c *Client) IsExpired(token string) bool {
	return jwtx.IsExpired(token, c.now())
}

// ShouldRefresh reports whether the stored access token expires within the
// next five minutes.
func (c *Client) ShouldRefresh(ctx context.Context) bool {
	token := c.AccessToken(ctx)
	if token == "" {
		return false
	}
	return jwtx.ShouldRefresh(token, c.now())
}
