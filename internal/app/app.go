// Package app is the composition root: it builds the session store, the
// translator, the auth client and the request pipelines from a Config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/devhub/internal/api"
	"github.com/aussiebroadwan/devhub/internal/auth"
	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/internal/errtrans"
	"github.com/aussiebroadwan/devhub/internal/session"
	sessionredis "github.com/aussiebroadwan/devhub/internal/session/drivers/redis"
	"github.com/aussiebroadwan/devhub/internal/session/drivers/sqlite"
	"github.com/aussiebroadwan/devhub/pkg/cryptox"
	"github.com/aussiebroadwan/devhub/pkg/httpx"
	"github.com/aussiebroadwan/devhub/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application holds the wired client core.
type Application struct {
	cfg    Config
	logger *slog.Logger

	kv      session.KV
	closers []func() error

	store      *session.TokenStore
	state      *session.State
	translator *errtrans.Translator
	auth       *auth.Client
	api        *api.Client

	httpClient  *http.Client
	navigator   auth.Navigator
	unsubscribe func()
}

// Option customizes an Application.
type Option func(*Application)

// WithNavigator sets where the user is sent when the session ends.
func WithNavigator(n auth.Navigator) Option {
	return func(app *Application) { app.navigator = n }
}

// WithLogger replaces the logger built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(app *Application) { app.logger = l }
}

// WithHTTPClient replaces the http.Client built from the config.
func WithHTTPClient(c *http.Client) Option {
	return func(app *Application) { app.httpClient = c }
}

// New creates an Application with all dependencies initialized. The session
// state is warmed from the store before New returns.
func New(ctx context.Context, cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{cfg: cfg}
	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: "devhub",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}
	if app.httpClient == nil {
		app.httpClient = httpx.NewHTTPClient(cfg.HTTPTimeout)
	}

	if err := app.initTranslator(); err != nil {
		return nil, err
	}

	if err := app.initSessionStore(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.initClients()

	if err := app.auth.Restore(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	app.unsubscribe = app.state.Subscribe(func(u *domain.User) {
		if u == nil {
			app.logger.Debug("session_changed", "signed_in", false)
			return
		}
		app.logger.Debug("session_changed", "signed_in", true, "user_id", u.ID)
	})

	return app, nil
}

func (app *Application) Config() Config                   { return app.cfg }
func (app *Application) Logger() *slog.Logger             { return app.logger }
func (app *Application) Auth() *auth.Client               { return app.auth }
func (app *Application) API() *api.Client                 { return app.api }
func (app *Application) State() *session.State            { return app.state }
func (app *Application) Translator() *errtrans.Translator { return app.translator }

// Close releases the session store connection.
func (app *Application) Close() error {
	if app.unsubscribe != nil {
		app.unsubscribe()
		app.unsubscribe = nil
	}

	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil

	return errors.Join(errs...)
}

// initTranslator builds the error translator and merges the optional
// translations file into it.
func (app *Application) initTranslator() error {
	app.translator = errtrans.New()

	if app.cfg.TranslationsFile == "" {
		return nil
	}

	if err := app.translator.LoadFile(app.cfg.TranslationsFile); err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	app.logger.Debug("translations loaded", "file", app.cfg.TranslationsFile, "entries", app.translator.Len())
	return nil
}

// initSessionStore opens the configured KV driver and wraps it in the
// token store.
func (app *Application) initSessionStore(ctx context.Context) error {
	switch app.cfg.SessionStore {
	case StoreMemory:
		app.kv = session.NewMemoryKV()

	case StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(app.cfg.SessionFile), 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}

		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.SessionFile)
		db, err := sqlite.Open(dsn)
		if err != nil {
			return fmt.Errorf("failed to open session database: %w", err)
		}
		app.kv = db
		app.closers = append(app.closers, db.Close)

	case StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
		app.closers = append(app.closers, client.Close)

		kv := sessionredis.NewStore(client, app.cfg.RedisPrefix)
		if err := kv.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		app.kv = kv
	}

	opts := []session.Option{session.WithLogger(app.logger)}

	if app.cfg.SealSession {
		material, persistent, err := cryptox.LoadMasterKey(app.cfg.MasterKeyPath, MasterKeyEnv)
		if err != nil {
			return err
		}
		if !persistent {
			app.logger.Warn("using ephemeral master key, sealed sessions will not survive a restart")
		}

		sealer, err := cryptox.NewSealer(material)
		if err != nil {
			return err
		}
		opts = append(opts, session.WithSealer(sealer))
	}

	app.store = session.NewTokenStore(app.kv, opts...)
	app.state = session.NewState(nil)

	app.logger.Debug("session store ready", "driver", app.cfg.SessionStore, "sealed", app.cfg.SealSession)
	return nil
}

// initClients builds both pipelines. The auth client uses the public one so
// that a failing refresh never re-enters unauthorized recovery.
func (app *Application) initClients() {
	transport := httpx.NewTransport(app.httpClient)
	limit := httpx.RateLimit(app.cfg.RateLimit, nil)

	public := httpx.Chain(transport,
		httpx.EnrichErrors(app.translator, app.logger),
		httpx.Logging(app.logger),
		limit,
	)

	authOpts := []auth.Option{
		auth.WithLogger(app.logger),
		auth.WithRefreshDedupe(app.cfg.RefreshDedupe),
	}
	if app.navigator != nil {
		authOpts = append(authOpts, auth.WithNavigator(app.navigator))
	}

	app.auth = auth.NewClient(httpx.NewClient(app.cfg.APIURL, public), app.store, app.state, authOpts...)
	app.api = api.New(httpx.NewClient(app.cfg.APIURL, app.buildPipeline(transport, limit)))
}

// buildPipeline returns the protected chain, outermost first: enrichment
// sees the final outcome after any refresh and resubmission.
func (app *Application) buildPipeline(transport httpx.Handler, limit httpx.Interceptor) httpx.Handler {
	return httpx.Chain(transport,
		httpx.EnrichErrors(app.translator, app.logger),
		auth.RecoverUnauthorized(app.auth),
		auth.AttachCredentials(app.auth),
		httpx.Logging(app.logger),
		limit,
	)
}
