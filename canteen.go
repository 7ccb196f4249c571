// Package canteen assembles the campus-canteen client: durable storage,
// session store, route-guarded navigation, the API gateway client, dish
// discovery, favorites/orders, and the merchant console, wired together
// in dependency order.
package canteen

import (
	"context"

	"github.com/smartcampus/canteen-client/api"
	"github.com/smartcampus/canteen-client/core"
	"github.com/smartcampus/canteen-client/discovery"
	"github.com/smartcampus/canteen-client/merchant"
	"github.com/smartcampus/canteen-client/ordering"
	"github.com/smartcampus/canteen-client/telemetry"
)

// Client is the assembled canteen client.
type Client struct {
	Config    *core.Config
	Sessions  *core.SessionStore
	Navigator *core.GuardedNavigator
	API       *api.Client
	Discovery *discovery.Engine
	Ordering  *ordering.Manager
	Merchant  *merchant.Console

	storage  core.Storage
	logger   core.Logger
	provider *telemetry.Provider
}

// New builds a client from configuration options. Pass a Navigator to
// receive navigation effects (the 401 redirect included); nil discards
// them.
func New(nav core.Navigator, opts ...core.Option) (*Client, error) {
	cfg, err := core.NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	logger := core.NewStandardLogger(cfg.Logging)

	storage, err := core.NewStorage(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	sessions := core.NewSessionStore(storage, logger)
	sessions.SetDefaultLocale(cfg.DefaultLocale)

	guarded := core.NewGuardedNavigator(sessions, nav, logger)

	apiOpts := []api.Option{
		api.WithNavigator(guarded),
		api.WithLogger(logger),
		api.WithTimeout(cfg.RequestTimeout),
	}

	var provider *telemetry.Provider
	if cfg.Telemetry.Enabled {
		provider, err = telemetry.NewProvider(cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			return nil, err
		}
		apiOpts = append(apiOpts,
			api.WithTelemetry(provider),
			api.WithTransport(telemetry.HTTPTransport(nil)),
		)
	}

	gateway := api.New(cfg.BaseURL, sessions, apiOpts...)

	engine := discovery.NewEngine(gateway, logger)
	manager := ordering.NewManager(gateway, sessions, logger)
	console := merchant.NewConsole(gateway, sessions, logger)

	// Discovery conversation and the favorites mirror live and die with
	// the session.
	sessions.OnClear(engine.Reset)
	sessions.OnClear(manager.Reset)

	return &Client{
		Config:    cfg,
		Sessions:  sessions,
		Navigator: guarded,
		API:       gateway,
		Discovery: engine,
		Ordering:  manager,
		Merchant:  console,
		storage:   storage,
		logger:    logger,
		provider:  provider,
	}, nil
}

// Start restores any persisted session. Call once at process start; a
// missing or malformed record leaves the client unauthenticated.
func (c *Client) Start(ctx context.Context) {
	c.Sessions.Restore(ctx)
}

// Close flushes telemetry and releases storage connections.
func (c *Client) Close(ctx context.Context) error {
	var firstErr error
	if c.provider != nil {
		if err := c.provider.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if closer, ok := c.storage.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
