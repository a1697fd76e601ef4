package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqtrails/cqtrails-admin/internal/assignments"
	"github.com/cqtrails/cqtrails-admin/internal/auth"
	"github.com/cqtrails/cqtrails-admin/internal/authz"
	"github.com/cqtrails/cqtrails-admin/internal/cities"
	"github.com/cqtrails/cqtrails-admin/internal/companies"
	"github.com/cqtrails/cqtrails-admin/internal/employees"
	"github.com/cqtrails/cqtrails-admin/internal/invoices"
	"github.com/cqtrails/cqtrails-admin/internal/notifications"
	"github.com/cqtrails/cqtrails-admin/internal/permissions"
	"github.com/cqtrails/cqtrails-admin/internal/reservations"
	"github.com/cqtrails/cqtrails-admin/internal/roles"
	"github.com/cqtrails/cqtrails-admin/internal/users"
	"github.com/cqtrails/cqtrails-admin/internal/vehicles"
	_ "github.com/cqtrails/cqtrails-admin/testing"
)

type emptyMatrixStore struct{}

func (emptyMatrixStore) RoleIDByName(context.Context, string) (int64, bool, error) {
	return 0, false, nil
}

func (emptyMatrixStore) PermissionByName(context.Context, string) (authz.Permission, bool, error) {
	return authz.Permission{}, false, nil
}

func (emptyMatrixStore) EntryFor(context.Context, int64, int64) (authz.Entry, bool, error) {
	return authz.Entry{}, false, nil
}

func (emptyMatrixStore) ListEntries(context.Context) ([]authz.MatrixRow, error) { return nil, nil }

func (emptyMatrixStore) EntriesForRole(context.Context, int64) ([]authz.MatrixRow, error) {
	return nil, nil
}

func (emptyMatrixStore) UpsertEntry(context.Context, authz.Entry) error { return nil }

func (emptyMatrixStore) UpdateEntry(context.Context, authz.Entry) (bool, error) {
	return false, nil
}

func (emptyMatrixStore) DeleteEntry(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func newTestRouter(t *testing.T) (http.Handler, *authz.Verifier) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &Config{
		AppEnv:             "development",
		AppRequestTimeout:  5 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	}

	verifier, err := authz.NewVerifier("router-test-secret", "", "")
	require.NoError(t, err)

	store := emptyMatrixStore{}
	checker := authz.NewChecker(store, nil, authz.NewResolver(nil), logger)
	gate := authz.NewGate(authz.GateConfig{
		Verifier:       verifier,
		Checker:        checker,
		Logger:         logger,
		SuperuserRole:  "Administrador",
		PublicPrefixes: []string{"/healthz", "/docs", "/openapi.json"},
	})

	router := NewRouter(RouterParams{
		Logger:               logger,
		Config:               cfg,
		Gate:                 gate,
		AuthHandler:          auth.NewHandler(auth.NewService(nil, verifier, time.Hour), logger),
		MatrixHandler:        authz.NewHandler(logger, authz.NewService(store, checker, nil, logger)),
		CitiesHandler:        cities.NewHandler(logger, cities.NewService(nil)),
		RolesHandler:         roles.NewHandler(logger, roles.NewService(nil)),
		PermissionsHandler:   permissions.NewHandler(logger, permissions.NewService(nil, nil)),
		UsersHandler:         users.NewHandler(logger, users.NewService(nil)),
		CompaniesHandler:     companies.NewHandler(logger, companies.NewService(nil)),
		EmployeesHandler:     employees.NewHandler(logger, employees.NewService(nil)),
		VehiclesHandler:      vehicles.NewHandler(logger, vehicles.NewService(nil)),
		ReservationsHandler:  reservations.NewHandler(logger, reservations.NewService(nil, nil, nil, logger)),
		AssignmentsHandler:   assignments.NewHandler(logger, assignments.NewService(nil)),
		InvoicesHandler:      invoices.NewHandler(logger, invoices.NewService(nil, nil)),
		NotificationsHandler: notifications.NewHandler(logger, notifications.NewService(nil)),
	})
	return router, verifier
}

func TestRouterHealthzIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouterMatrixRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rolespermisos", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterMatrixReachableAsSuperuser(t *testing.T) {
	router, verifier := newTestRouter(t)

	token, err := verifier.Sign(authz.Claims{UserID: 1, Email: "admin@cqtrails.mx", Role: "Administrador"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/rolespermisos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestRouterServesDocs(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "CQ Trails Admin API")
}
