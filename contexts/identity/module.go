package identity

import (
	"log/slog"
	"time"

	httpadapter "eshop/contexts/identity/adapters/http"
	jwtadapter "eshop/contexts/identity/adapters/jwt"
	"eshop/contexts/identity/adapters/memory"
	"eshop/contexts/identity/adapters/password"
	"eshop/contexts/identity/application"
	"eshop/contexts/identity/ports"
)

// TokenTTL is the fixed access token lifetime; there is no refresh or
// revocation flow beyond expiry.
const TokenTTL = 24 * time.Hour

// Module is the identity composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Tokens  ports.TokenVerifier
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repository ports.Repository
	Hasher     ports.PasswordHasher
	Issuer     ports.TokenIssuer
	Verifier   ports.TokenVerifier
	Clock      ports.Clock
	IDs        ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Hasher: deps.Hasher,
		Tokens: deps.Issuer,
		Clock:  deps.Clock,
		IDs:    deps.IDs,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Tokens:  deps.Verifier,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters and an HS256 token manager keyed by secret.
func NewInMemoryModule(secret []byte, logger *slog.Logger) (Module, error) {
	store := memory.NewStore()
	tokens, err := jwtadapter.NewManager(secret, TokenTTL, store)
	if err != nil {
		return Module{}, err
	}
	module := NewModule(Dependencies{
		Repository: store,
		Hasher:     password.NewHasher(),
		Issuer:     tokens,
		Verifier:   tokens,
		Clock:      store,
		IDs:        store,
		Logger:     logger,
	})
	module.Store = store
	return module, nil
}
