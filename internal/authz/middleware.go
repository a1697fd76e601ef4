package authz

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cqtrails/cqtrails-admin/internal/platform/httpx"
)

// UserDirectory confirms that the account behind a token still exists and
// is active. Implemented by the auth repository.
type UserDirectory interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// Gate is the authorization middleware guarding every route. Per request it
// walks Unauthenticated -> Identified -> (Public | Bypassed | Checked) ->
// Allowed | Denied.
type Gate struct {
	verifier       *Verifier
	checker        *Checker
	directory      UserDirectory
	logger         *slog.Logger
	superuserRole  string
	publicPrefixes []string
	onDenial       func(resource, action string)
}

// GateConfig collects the Gate dependencies.
type GateConfig struct {
	Verifier  *Verifier
	Checker   *Checker
	Directory UserDirectory
	Logger    *slog.Logger
	// SuperuserRole bypasses the permission matrix, compared case folded.
	SuperuserRole  string
	PublicPrefixes []string
	// OnDenial, when set, is invoked for every 403 so denials can be
	// counted.
	OnDenial func(resource, action string)
}

// NewGate constructs the middleware.
func NewGate(cfg GateConfig) *Gate {
	return &Gate{
		verifier:       cfg.Verifier,
		checker:        cfg.Checker,
		directory:      cfg.Directory,
		logger:         cfg.Logger,
		superuserRole:  Fold(cfg.SuperuserRole),
		publicPrefixes: cfg.PublicPrefixes,
		onDenial:       cfg.OnDenial,
	}
}

// Middleware returns the http middleware enforcing the permission matrix.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.isPublic(r.URL.Path) || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := g.authenticate(r)
		if err != nil {
			httpx.Fail(w, http.StatusUnauthorized, "No autenticado")
			return
		}
		ctx := ContextWithPrincipal(r.Context(), principal)
		r = r.WithContext(ctx)

		action, ok := ActionForMethod(r.Method)
		if !ok {
			httpx.Fail(w, http.StatusMethodNotAllowed, fmt.Sprintf("Método HTTP no soportado: %s", r.Method))
			return
		}

		if Fold(principal.Role) == g.superuserRole {
			next.ServeHTTP(w, r)
			return
		}

		resource := ResourceFromPath(r.URL.Path)
		if resource == "" {
			g.deny("", action)
			httpx.Fail(w, http.StatusForbidden, "Acceso denegado")
			return
		}

		allowed, err := g.checker.Allowed(ctx, principal.Role, resource, action)
		if err != nil {
			// Backend failure: fail closed, never grant on error.
			g.logger.Error("authz: permission lookup failed",
				slog.String("role", principal.Role),
				slog.String("resource", resource),
				slog.String("action", string(action)),
				slog.Any("error", err))
			g.deny(resource, action)
			httpx.Fail(w, http.StatusForbidden, "Acceso denegado")
			return
		}
		if !allowed {
			// ResourceUnresolvable and Forbidden are deliberately
			// indistinguishable on the wire.
			g.deny(resource, action)
			httpx.Fail(w, http.StatusForbidden,
				fmt.Sprintf("Acceso denegado: sin permiso %s para '%s'", action, resource))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *Gate) deny(resource string, action Action) {
	if g.onDenial != nil {
		g.onDenial(resource, string(action))
	}
}

func (g *Gate) authenticate(r *http.Request) (*Principal, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, ErrUnauthenticated
	}
	principal, err := g.verifier.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, err
	}
	if g.directory != nil {
		active, err := g.directory.IsActive(r.Context(), principal.UserID)
		if err != nil || !active {
			return nil, ErrUnauthenticated
		}
	}
	return principal, nil
}

// isPublic matches whole path segments: "/docs" covers "/docs" and
// "/docs/...", never "/docsx".
func (g *Gate) isPublic(path string) bool {
	for _, prefix := range g.publicPrefixes {
		if prefix == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
