package authz

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	_ "github.com/cqtrails/cqtrails-admin/testing"
)

type stubDirectory struct {
	inactive map[int64]bool
}

func (d *stubDirectory) IsActive(_ context.Context, userID int64) (bool, error) {
	return !d.inactive[userID], nil
}

func newTestGate(t *testing.T, store MatrixStore) (*Gate, *Verifier) {
	t.Helper()
	v := newTestVerifier(t)
	checker := newTestChecker(store, NewMemoryCache(5*time.Minute))
	gate := NewGate(GateConfig{
		Verifier:       v,
		Checker:        checker,
		Directory:      &stubDirectory{inactive: map[int64]bool{99: true}},
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		SuperuserRole:  "Administrador",
		PublicPrefixes: []string{"/auth/login", "/auth/register", "/healthz", "/docs", "/"},
	})
	return gate, v
}

func bearerFor(t *testing.T, v *Verifier, role string, userID int64) string {
	t.Helper()
	raw, err := v.Sign(Claims{UserID: userID, Email: "t@cqtrails.local", Role: role}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + raw
}

func serve(gate *Gate, method, path, authHeader string) *httptest.ResponseRecorder {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	res := httptest.NewRecorder()
	gate.Middleware(okHandler).ServeHTTP(res, req)
	return res
}

func TestGatePublicPathsSkipAuth(t *testing.T) {
	gate, _ := newTestGate(t, newMemoryMatrix())

	for _, path := range []string{"/auth/login", "/auth/register", "/healthz", "/docs", "/"} {
		res := serve(gate, http.MethodPost, path, "")
		require.Equal(t, http.StatusOK, res.Code, "path %q must be public", path)
	}
}

func TestGatePublicPrefixMatchesWholeSegments(t *testing.T) {
	gate, _ := newTestGate(t, newMemoryMatrix())

	res := serve(gate, http.MethodGet, "/docs/index.html", "")
	require.Equal(t, http.StatusOK, res.Code)

	for _, path := range []string{"/docsx", "/auth/loginextra", "/healthzz"} {
		res := serve(gate, http.MethodGet, path, "")
		require.Equal(t, http.StatusUnauthorized, res.Code, "path %q must not be public", path)
	}
}

func TestGateOptionsPassesThrough(t *testing.T) {
	gate, _ := newTestGate(t, newMemoryMatrix())
	res := serve(gate, http.MethodOptions, "/vehiculos", "")
	require.Equal(t, http.StatusOK, res.Code)
}

func TestGateMissingTokenRejected(t *testing.T) {
	gate, _ := newTestGate(t, newMemoryMatrix())

	res := serve(gate, http.MethodGet, "/vehiculos", "")
	require.Equal(t, http.StatusUnauthorized, res.Code)

	res = serve(gate, http.MethodGet, "/vehiculos", "Token xyz")
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestGateExpiredTokenRejectedRegardlessOfRole(t *testing.T) {
	store := newMemoryMatrix()
	store.grant(1, "Administrador", 5, "vehiculos", Entry{CanRead: true, CanCreate: true, CanEdit: true, CanDelete: true})
	gate, v := newTestGate(t, store)

	claims := Claims{UserID: 1, Role: "Administrador"}
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	raw, err := v.Sign(claims, time.Hour)
	require.NoError(t, err)

	res := serve(gate, http.MethodGet, "/vehiculos", "Bearer "+raw)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestGateInactiveAccountRejected(t *testing.T) {
	gate, v := newTestGate(t, newMemoryMatrix())
	res := serve(gate, http.MethodGet, "/vehiculos", bearerFor(t, v, "Administrador", 99))
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestGateSuperuserBypass(t *testing.T) {
	// Empty matrix: nothing is configured, the superuser still passes.
	gate, v := newTestGate(t, newMemoryMatrix())

	res := serve(gate, http.MethodDelete, "/recursos-desconocidos/3", bearerFor(t, v, "Administrador", 1))
	require.Equal(t, http.StatusOK, res.Code)

	// Case-insensitive match on the configured marker.
	res = serve(gate, http.MethodDelete, "/recursos-desconocidos/3", bearerFor(t, v, "administrador", 1))
	require.Equal(t, http.StatusOK, res.Code)
}

func TestGateUnsupportedMethodRejected(t *testing.T) {
	gate, v := newTestGate(t, newMemoryMatrix())
	res := serve(gate, "TRACE", "/vehiculos", bearerFor(t, v, "Empleado", 2))
	require.Equal(t, http.StatusMethodNotAllowed, res.Code)
}

func TestGateMatrixScenario(t *testing.T) {
	// Role "Empleado" may read vehiculos but not create them.
	store := newMemoryMatrix()
	store.grant(2, "Empleado", 5, "vehiculos", Entry{CanRead: true})
	gate, v := newTestGate(t, store)
	auth := bearerFor(t, v, "Empleado", 2)

	res := serve(gate, http.MethodGet, "/vehiculos", auth)
	require.Equal(t, http.StatusOK, res.Code)

	res = serve(gate, http.MethodPost, "/vehiculos", auth)
	require.Equal(t, http.StatusForbidden, res.Code)

	// Singular path segment resolves through the variant heuristic.
	res = serve(gate, http.MethodGet, "/vehiculo/5", auth)
	require.Equal(t, http.StatusOK, res.Code)
}

func TestGateUnknownRoleGetsForbiddenNotServerError(t *testing.T) {
	store := newMemoryMatrix()
	store.grant(2, "Empleado", 5, "vehiculos", Entry{CanRead: true})
	gate, v := newTestGate(t, store)

	res := serve(gate, http.MethodGet, "/vehiculos", bearerFor(t, v, "Invitado", 3))
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestGateDenialDoesNotRevealCatalog(t *testing.T) {
	store := newMemoryMatrix()
	store.roles[Fold("Empleado")] = 2
	gate, v := newTestGate(t, store)

	// Unresolvable resource and missing entry must be indistinguishable.
	resMissing := serve(gate, http.MethodGet, "/no-existe", bearerFor(t, v, "Empleado", 2))
	require.Equal(t, http.StatusForbidden, resMissing.Code)
}
