package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forestplants/storefront/internal/core/domain"
	"github.com/forestplants/storefront/internal/core/ports"
	"github.com/forestplants/storefront/internal/core/service"
	redisdb "github.com/forestplants/storefront/internal/infrastructure/db/redis"
	"github.com/forestplants/storefront/internal/infrastructure/httpclient"
	"github.com/forestplants/storefront/internal/infrastructure/kv"
	"github.com/forestplants/storefront/internal/pkg/config"
	"github.com/forestplants/storefront/internal/router"
	"github.com/forestplants/storefront/pkg/logger"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	driverFile   = "file"
	driverRedis  = "redis"
	driverMemory = "memory"
	driverNone   = "none"
)

// app is the wired client: one storage bridge, one HTTP gateway, the two
// stores and the router, with the unauthorized hook closing the loop.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	storage *kv.Bridge
	api     *httpclient.Client
	session *service.SessionStore
	cart    *service.CartStore
	pages   *router.Router

	closeFn func()
}

func newApp(ctx context.Context, cfg *config.Config, initial string) (*app, error) {
	log := logger.Get()

	backend, closeFn, err := buildStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	storage := kv.NewBridge(backend, logger.For("kv"))

	api, err := httpclient.New(
		httpclient.Config{BaseURL: cfg.API.URL, Origin: cfg.API.Origin, Timeout: cfg.API.RequestTimeout},
		httpclient.WithLogger(logger.For("api")),
		httpclient.WithTokenSource(func() (string, bool) {
			return storage.Get(domain.StorageKeyToken)
		}),
	)
	if err != nil {
		closeFn()
		return nil, err
	}

	session := service.NewSessionStore(storage, api, logger.For("session"))
	cart := service.NewCartStore(storage, logger.For("cart"))
	pages := router.New(router.Routes(), session,
		router.WithSiteTitle(cfg.SiteTitle),
		router.WithLogger(logger.For("router")),
	)
	api.OnUnauthorized(service.NewSessionExpiry(session, pages, logger.For("session")))

	if _, err := pages.Ready(initial); err != nil {
		closeFn()
		return nil, fmt.Errorf("initial navigation: %w", err)
	}

	return &app{
		cfg:     cfg,
		log:     log,
		storage: storage,
		api:     api,
		session: session,
		cart:    cart,
		pages:   pages,
		closeFn: closeFn,
	}, nil
}

func (a *app) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// buildStorage picks the persistence backend. A nil backend with no error
// means persistence is unavailable and the bridge runs as a no-op.
func buildStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.KeyValueStore, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case driverFile, "":
		store, err := kv.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.Storage.Dir).Msg("file storage unavailable, state will not persist")
			return nil, noop, nil
		}
		log.Debug().Str("dir", cfg.Storage.Dir).Msg("storage configured with files")
		return store, noop, nil

	case driverRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, state will not persist")
			return nil, noop, nil
		}
		log.Debug().Str("addr", cfg.Redis.Addr).Msg("storage configured with redis")
		return redisdb.NewKV(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil

	case driverMemory:
		return kv.NewMemoryStore(), noop, nil

	case driverNone:
		return nil, noop, nil
	}

	return nil, noop, fmt.Errorf("unknown STORAGE_DRIVER %q (want file, redis, memory or none)", cfg.Storage.Driver)
}
