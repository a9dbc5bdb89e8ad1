package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"eshop/contexts/catalog"
	catalogpostgres "eshop/contexts/catalog/adapters/postgres"
	"eshop/contexts/identity"
	identityjwt "eshop/contexts/identity/adapters/jwt"
	"eshop/contexts/identity/adapters/password"
	identitypostgres "eshop/contexts/identity/adapters/postgres"
	"eshop/contexts/ordering"
	orderingpostgres "eshop/contexts/ordering/adapters/postgres"
	"eshop/contexts/ordering/application"
	orderingports "eshop/contexts/ordering/ports"
	"eshop/internal/platform/config"
	"eshop/internal/platform/db"
	"eshop/internal/platform/httpserver"
	"eshop/internal/platform/messaging"
	"eshop/internal/platform/uploads"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	bus      *messaging.Bus
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(
		identitypostgres.AutoMigrate,
		catalogpostgres.AutoMigrate,
		orderingpostgres.AutoMigrate,
	); err != nil {
		return nil, err
	}

	tokens, err := identityjwt.NewManager([]byte(cfg.JWTSecret), identity.TokenTTL, identitypostgres.SystemClock{})
	if err != nil {
		return nil, err
	}
	identityModule := identity.NewModule(identity.Dependencies{
		Repository: identitypostgres.NewRepository(pg.DB, logger),
		Hasher:     password.NewHasher(),
		Issuer:     tokens,
		Verifier:   tokens,
		Clock:      identitypostgres.SystemClock{},
		IDs:        identitypostgres.UUIDGenerator{},
		Logger:     logger,
	})

	catalogModule := catalog.NewModule(catalog.Dependencies{
		Repository: catalogpostgres.NewRepository(pg.DB, logger),
		Clock:      catalogpostgres.SystemClock{},
		IDs:        catalogpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	bus := messaging.NewBus(logger)
	orderingModule := ordering.NewModule(ordering.Dependencies{
		Repository: orderingpostgres.NewRepository(pg.DB, logger),
		Clock:      orderingpostgres.SystemClock{},
		IDs:        orderingpostgres.UUIDGenerator{},
		Events:     bus,
		Logger:     logger,
	})

	uploadStore, err := uploads.NewStore(cfg.UploadDir, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(
		identityModule,
		catalogModule,
		orderingModule,
		uploadStore,
		logger,
		normalizeAddr(cfg.HTTPPort),
		cfg.APIPrefix,
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		bus:      bus,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	// Audit trail for order lifecycle events until an external consumer
	// replaces this subscriber.
	a.bus.Subscribe(ctx, application.TopicOrders, func(_ context.Context, event orderingports.EventEnvelope) error {
		a.logger.Info("order event",
			"event", "order_event_consumed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	})

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
