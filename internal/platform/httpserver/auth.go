package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	identityports "eshop/contexts/identity/ports"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the verified token claims the access gate stored
// for the current request. Absent on public routes.
func ClaimsFromContext(ctx context.Context) (identityports.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(identityports.Claims)
	return claims, ok
}

// publicRoute is one allow-list entry: either an exact path or a prefix,
// restricted to a method set.
type publicRoute struct {
	exact   string
	prefix  string
	methods map[string]bool
}

func (route publicRoute) matches(r *http.Request) bool {
	if !route.methods[r.Method] {
		return false
	}
	if route.exact != "" {
		return r.URL.Path == route.exact
	}
	return strings.HasPrefix(r.URL.Path, route.prefix)
}

// AccessGate authenticates every request outside the public allow-list and
// applies the per-route role policy before dispatch.
//
// Policy: placing an order and reading one's own orders require any
// authenticated caller; every other gated route is admin-only.
type AccessGate struct {
	verifier identityports.TokenVerifier
	public   []publicRoute
	anyRole  []publicRoute
	logger   *slog.Logger
}

func NewAccessGate(verifier identityports.TokenVerifier, apiPrefix string, logger *slog.Logger) *AccessGate {
	if logger == nil {
		logger = slog.Default()
	}

	readOnly := map[string]bool{http.MethodGet: true, http.MethodOptions: true}
	return &AccessGate{
		verifier: verifier,
		logger:   logger,
		public: []publicRoute{
			{exact: apiPrefix + "/users/login", methods: map[string]bool{http.MethodPost: true}},
			{exact: apiPrefix + "/users/register", methods: map[string]bool{http.MethodPost: true}},
			{prefix: apiPrefix + "/products", methods: readOnly},
			{prefix: apiPrefix + "/categories", methods: readOnly},
			{prefix: "/public/uploads", methods: readOnly},
			{prefix: "/swagger/", methods: readOnly},
		},
		anyRole: []publicRoute{
			{exact: apiPrefix + "/orders", methods: map[string]bool{http.MethodPost: true}},
			{prefix: apiPrefix + "/orders/get/userorders/", methods: map[string]bool{http.MethodGet: true}},
		},
	}
}

func (g *AccessGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, route := range g.public {
			if route.matches(r) {
				next.ServeHTTP(w, r)
				return
			}
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing or malformed bearer token")
			return
		}

		claims, err := g.verifier.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		if !claims.IsAdmin && !g.allowsAnyRole(r) {
			g.logger.Warn("non-admin denied",
				"event", "access_denied",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"user_id", claims.UserID,
				"method", r.Method,
				"path", r.URL.Path,
			)
			writeError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *AccessGate) allowsAnyRole(r *http.Request) bool {
	for _, route := range g.anyRole {
		if route.matches(r) {
			return true
		}
	}
	return false
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	token := value[len(bearer):]
	if token == "" {
		return "", false
	}
	return token, true
}
