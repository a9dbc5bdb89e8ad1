package ordering

import (
	"log/slog"

	httpadapter "eshop/contexts/ordering/adapters/http"
	"eshop/contexts/ordering/adapters/memory"
	"eshop/contexts/ordering/application"
	"eshop/contexts/ordering/ports"
)

// Module is the ordering composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Events     ports.EventPublisher
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Clock:  deps.Clock,
		IDs:    deps.IDs,
		Events: deps.Events,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. Events may be nil.
func NewInMemoryModule(events ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDs:        store,
		Events:     events,
		Logger:     logger,
	})
	module.Store = store
	return module
}
