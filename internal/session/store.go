// Package session persists the (access token, refresh token, user) triple
// and publishes the current user to interested parties.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/pkg/cryptox"
)

// Storage keys of the session triple.
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "auth_user"
)

var keys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

var (
	// ErrIncomplete is returned by Save when a part of the triple is missing.
	ErrIncomplete = errors.New("session: incomplete session")

	// ErrCorrupt marks stored data that cannot be turned back into a
	// session. Read reports it as an empty session.
	ErrCorrupt = errors.New("session: corrupt stored data")
)

// KV is the durable key/value driver behind a TokenStore. Every method must
// be atomic: readers never observe a partially applied SetAll or DeleteAll.
type KV interface {
	// SetAll writes every entry, replacing prior values.
	SetAll(ctx context.Context, entries map[string][]byte) error

	// GetAll returns the values present for keys. Missing keys are omitted.
	GetAll(ctx context.Context, keys ...string) (map[string][]byte, error)

	// DeleteAll removes keys. Missing keys are ignored.
	DeleteAll(ctx context.Context, keys ...string) error
}

// Option configures a TokenStore.
type Option func(*TokenStore)

// WithSealer encrypts every stored value with s.
func WithSealer(s *cryptox.Sealer) Option {
	return func(ts *TokenStore) { ts.sealer = s }
}

// WithLogger sets the logger used to report discarded stored data.
func WithLogger(l *slog.Logger) Option {
	return func(ts *TokenStore) { ts.logger = l }
}

// TokenStore reads and writes the session triple as one unit.
type TokenStore struct {
	kv     KV
	sealer *cryptox.Sealer
	logger *slog.Logger
}

// NewTokenStore returns a TokenStore over kv.
func NewTokenStore(kv KV, opts ...Option) *TokenStore {
	ts := &TokenStore{kv: kv, logger: slog.Default()}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// Save replaces the stored session with s.
func (ts *TokenStore) Save(ctx context.Context, s domain.Session) error {
	if !s.Complete() {
		return ErrIncomplete
	}

	user, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	entries := map[string][]byte{
		KeyAccessToken:  []byte(s.AccessToken),
		KeyRefreshToken: []byte(s.RefreshToken),
		KeyUser:         user,
	}

	for k, v := range entries {
		if entries[k], err = ts.seal(v); err != nil {
			return err
		}
	}

	if err := ts.kv.SetAll(ctx, entries); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Read returns the stored session. Missing, partial or unreadable data
// yields an empty session and a nil error; only driver failures are
// returned.
func (ts *TokenStore) Read(ctx context.Context) (domain.Session, error) {
	values, err := ts.kv.GetAll(ctx, keys...)
	if err != nil {
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}

	if len(values) == 0 {
		return domain.Session{}, nil
	}

	s, err := ts.decode(values)
	if err != nil {
		ts.logger.DebugContext(ctx, "session_discarded", "error", err)
		return domain.Session{}, nil
	}
	return s, nil
}

// Clear removes the stored session.
func (ts *TokenStore) Clear(ctx context.Context) error {
	if err := ts.kv.DeleteAll(ctx, keys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (ts *TokenStore) decode(values map[string][]byte) (domain.Session, error) {
	plain := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, ok := values[k]
		if !ok || len(v) == 0 {
			return domain.Session{}, fmt.Errorf("%w: missing %s", ErrCorrupt, k)
		}

		p, err := ts.open(v)
		if err != nil {
			return domain.Session{}, fmt.Errorf("%w: %s: %w", ErrCorrupt, k, err)
		}
		plain[k] = p
	}

	var user domain.User
	if err := json.Unmarshal(plain[KeyUser], &user); err != nil {
		return domain.Session{}, fmt.Errorf("%w: user: %w", ErrCorrupt, err)
	}

	return domain.Session{
		AccessToken:  string(plain[KeyAccessToken]),
		RefreshToken: string(plain[KeyRefreshToken]),
		User:         &user,
	}, nil
}

func (ts *TokenStore) seal(v []byte) ([]byte, error) {
	if ts.sealer == nil {
		return v, nil
	}
	out, err := ts.sealer.Seal(v)
	if err != nil {
		return nil, fmt.Errorf("seal session: %w", err)
	}
	return out, nil
}

func (ts *TokenStore) open(v []byte) ([]byte, error) {
	if ts.sealer == nil {
		return v, nil
	}
	return ts.sealer.Open(v)
}
