package main

import (
	"context"
	"io"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/infra/api"
	"storefront/internal/infra/auth"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/notification"
	"storefront/internal/infra/persistence/state"
	"storefront/internal/infra/querycache"
	"storefront/internal/infra/transport"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"

	"github.com/pkg/errors"
)

// sessionTokenKey is the state entry holding the session cookie value. It
// plays the part of the browser's cookie store and is kept apart from the
// "auth" entry, which only ever holds the user profile.
const sessionTokenKey = "session-token"

// app is the browser-context composition: one browser client, one query
// cache and the persisted session, shared by every command of a run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer

	storage   service.StateStorage
	inspector service.TokenInspector
	history   *transport.History
	client    *transport.BrowserClient
	resources *api.API
	cache     *querycache.Cache

	session         usecase.SessionUsecase
	cartUsecase     usecase.CartUsecase
	wishListUsecase usecase.WishListUsecase
}

func newApp(ctx context.Context, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	return buildApp(ctx, cfg, stdout, stderr)
}

// buildApp wires the components. Logs and toasts go to stderr so stdout
// only carries command output.
func buildApp(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (*app, error) {
	logger, err := logs.NewWithWriter(cfg, stderr)
	if err != nil {
		return nil, err
	}

	storage, err := state.Open(ctx, cfg.State, logger)
	if err != nil {
		return nil, err
	}

	session := impl.NewSessionStore(cfg, storage, logger)
	if err := session.Hydrate(ctx); err != nil {
		_ = storage.Close()

		return nil, err
	}

	history := transport.NewHistory("/")
	client, err := transport.NewBrowserClient(cfg, transport.NewAuthPolicy(cfg), history, logger)
	if err != nil {
		_ = storage.Close()

		return nil, err
	}

	token, err := storage.Load(ctx, sessionTokenKey)
	switch {
	case err == nil:
		client.SetSessionToken(string(token))
	case !errors.Is(err, service.ErrStateNotFound):
		_ = storage.Close()

		return nil, errors.Wrap(err, "load session token")
	}

	cache := querycache.New(cfg, logger)
	notifier := notification.NewConsoleNotifier(stderr)
	if cfg.Env.Debug {
		notifier = notification.Tee(notifier, notification.NewLogNotifier(logger))
	}
	resources := api.New(client)

	return &app{
		cfg:             cfg,
		logger:          logger,
		stdout:          stdout,
		storage:         storage,
		inspector:       auth.NewJWTInspector(),
		history:         history,
		client:          client,
		resources:       resources,
		cache:           cache,
		session:         session,
		cartUsecase:     impl.NewCartService(resources, session, cache, notifier, logger),
		wishListUsecase: impl.NewWishListService(resources, session, cache, notifier, logger),
	}, nil
}

// Close waits for background refetches and releases the state storage.
func (a *app) Close() error {
	if err := a.cache.Close(); err != nil {
		return err
	}

	return a.storage.Close()
}
