package authz

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memoryMatrix is the in-memory MatrixStore the checker tests run against.
type memoryMatrix struct {
	roles       map[string]int64
	permissions map[string]Permission
	entries     map[[2]int64]Entry
	failing     bool
	lookups     atomic.Int64
}

func newMemoryMatrix() *memoryMatrix {
	return &memoryMatrix{
		roles:       make(map[string]int64),
		permissions: make(map[string]Permission),
		entries:     make(map[[2]int64]Entry),
	}
}

func (m *memoryMatrix) RoleIDByName(_ context.Context, name string) (int64, bool, error) {
	if m.failing {
		return 0, false, errors.New("backend unavailable")
	}
	m.lookups.Add(1)
	id, ok := m.roles[Fold(name)]
	return id, ok, nil
}

func (m *memoryMatrix) PermissionByName(_ context.Context, name string) (Permission, bool, error) {
	if m.failing {
		return Permission{}, false, errors.New("backend unavailable")
	}
	perm, ok := m.permissions[Fold(name)]
	return perm, ok, nil
}

func (m *memoryMatrix) EntryFor(_ context.Context, roleID, permissionID int64) (Entry, bool, error) {
	if m.failing {
		return Entry{}, false, errors.New("backend unavailable")
	}
	entry, ok := m.entries[[2]int64{roleID, permissionID}]
	return entry, ok, nil
}

func (m *memoryMatrix) grant(roleID int64, roleName string, permID int64, permName string, entry Entry) {
	m.roles[Fold(roleName)] = roleID
	m.permissions[Fold(permName)] = Permission{ID: permID, Name: permName}
	entry.RoleID = roleID
	entry.PermissionID = permID
	m.entries[[2]int64{roleID, permID}] = entry
}

func newTestChecker(store MatrixStore, cache DecisionCache) *Checker {
	return NewChecker(store, cache, NewResolver(nil), slog.Default())
}

func TestCheckerNoEntryMeansDenied(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.roles[Fold("Empleado")] = 2
	store.permissions["vehiculos"] = Permission{ID: 5, Name: "vehiculos"}
	// No role_permissions entry for (2, 5).

	checker := newTestChecker(store, nil)
	for _, action := range []Action{ActionCreate, ActionRead, ActionEdit, ActionDelete} {
		allowed, err := checker.Allowed(ctx, "Empleado", "vehiculos", action)
		require.NoError(t, err)
		require.False(t, allowed)
	}
}

func TestCheckerDecisionMatchesStoredFlags(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.grant(2, "Empleado", 5, "vehiculos", Entry{CanRead: true, CanEdit: true})

	checker := newTestChecker(store, nil)

	allowed, err := checker.Allowed(ctx, "Empleado", "vehiculos", ActionRead)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = checker.Allowed(ctx, "Empleado", "vehiculos", ActionCreate)
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, err = checker.Allowed(ctx, "Empleado", "vehiculos", ActionDelete)
	require.NoError(t, err)
	require.False(t, allowed)

	// PUT and PATCH both map to edit and must agree.
	editPut, _ := ActionForMethod("PUT")
	editPatch, _ := ActionForMethod("PATCH")
	require.Equal(t, editPut, editPatch)
	allowed, err = checker.Allowed(ctx, "Empleado", "vehiculos", editPut)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestCheckerVariantResolution(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.grant(2, "Empleado", 5, "ciudades", Entry{CanRead: true})
	store.grant(2, "Empleado", 6, "empleados", Entry{CanRead: true})

	checker := newTestChecker(store, nil)

	// Catalog stores the plural; both spellings resolve.
	for _, resource := range []string{"ciudades", "ciudad", "empleados", "empleado"} {
		allowed, err := checker.Allowed(ctx, "Empleado", resource, ActionRead)
		require.NoError(t, err)
		require.True(t, allowed, "resource %q should resolve", resource)
	}
}

func TestCheckerUnknownRoleDeniedNotError(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.grant(2, "Empleado", 5, "vehiculos", Entry{CanRead: true})

	checker := newTestChecker(store, nil)
	allowed, err := checker.Allowed(ctx, "Invitado", "vehiculos", ActionRead)
	require.NoError(t, err, "an unknown role is a denial, not a failure")
	require.False(t, allowed)
}

func TestCheckerUnresolvableResourceDenied(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.roles[Fold("Empleado")] = 2

	checker := newTestChecker(store, nil)
	allowed, err := checker.Allowed(ctx, "Empleado", "facturaciones-raras", ActionRead)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestCheckerBackendErrorFailsClosed(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.failing = true

	checker := newTestChecker(store, nil)
	allowed, err := checker.Allowed(ctx, "Empleado", "vehiculos", ActionRead)
	require.Error(t, err)
	require.False(t, allowed)
}

func TestCheckerUsesCache(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.grant(2, "Empleado", 5, "vehiculos", Entry{CanRead: true})

	cache := NewMemoryCache(5 * time.Minute)
	checker := newTestChecker(store, cache)

	for i := 0; i < 5; i++ {
		allowed, err := checker.Allowed(ctx, "Empleado", "vehiculos", ActionRead)
		require.NoError(t, err)
		require.True(t, allowed)
	}
	require.Equal(t, int64(1), store.lookups.Load(), "repeat decisions must come from the cache")
}

func TestCheckerInvalidateForcesRequery(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.grant(2, "Empleado", 5, "vehiculos", Entry{CanRead: true})

	cache := NewMemoryCache(5 * time.Minute)
	checker := newTestChecker(store, cache)

	allowed, err := checker.Allowed(ctx, "Empleado", "vehiculos", ActionRead)
	require.NoError(t, err)
	require.True(t, allowed)

	// Revoke and invalidate; the very next check must see the new matrix
	// even though the TTL has not elapsed.
	store.entries[[2]int64{2, 5}] = Entry{RoleID: 2, PermissionID: 5}
	checker.InvalidateCache(ctx)

	allowed, err = checker.Allowed(ctx, "Empleado", "vehiculos", ActionRead)
	require.NoError(t, err)
	require.False(t, allowed, "revoked entry must not be served from cache")
	require.Equal(t, int64(2), store.lookups.Load())
}

func TestCheckerExpiredEntryRefetched(t *testing.T) {
	ctx := context.Background()
	store := newMemoryMatrix()
	store.grant(2, "Empleado", 5, "vehiculos", Entry{CanRead: true})

	cache := NewMemoryCache(5 * time.Minute)
	now := time.Now()
	cache.now = func() time.Time { return now }
	checker := newTestChecker(store, cache)

	_, err := checker.Allowed(ctx, "Empleado", "vehiculos", ActionRead)
	require.NoError(t, err)

	now = now.Add(6 * time.Minute)
	_, err = checker.Allowed(ctx, "Empleado", "vehiculos", ActionRead)
	require.NoError(t, err)
	require.Equal(t, int64(2), store.lookups.Load(), "expired entries must not be served")
}
