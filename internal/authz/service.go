package authz

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// AdminStore is the write side of the matrix used by the admin endpoints.
type AdminStore interface {
	MatrixStore
	ListEntries(ctx context.Context) ([]MatrixRow, error)
	EntriesForRole(ctx context.Context, roleID int64) ([]MatrixRow, error)
	UpsertEntry(ctx context.Context, entry Entry) error
	UpdateEntry(ctx context.Context, entry Entry) (bool, error)
	DeleteEntry(ctx context.Context, roleID, permissionID int64) (bool, error)
}

// Invalidator is the cache hook the service calls after every matrix write.
type Invalidator interface {
	InvalidateCache(ctx context.Context)
}

// Service orchestrates administrative changes to the permission matrix.
// Each write invalidates the decision cache and leaves an audit record.
type Service struct {
	store       AdminStore
	invalidator Invalidator
	audit       *shared.AuditLogger
	logger      *slog.Logger
}

// NewService constructs a Service. audit may be nil.
func NewService(store AdminStore, invalidator Invalidator, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{store: store, invalidator: invalidator, audit: audit, logger: logger}
}

// ListEntries returns every matrix row.
func (s *Service) ListEntries(ctx context.Context) ([]MatrixRow, error) {
	return s.store.ListEntries(ctx)
}

// EntriesForRole returns the rows for one role.
func (s *Service) EntriesForRole(ctx context.Context, roleID int64) ([]MatrixRow, error) {
	return s.store.EntriesForRole(ctx, roleID)
}

// EntriesForRoleName resolves a role by name first.
func (s *Service) EntriesForRoleName(ctx context.Context, name string) ([]MatrixRow, error) {
	roleID, ok, err := s.store.RoleIDByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s.store.EntriesForRole(ctx, roleID)
}

// Upsert creates or replaces a matrix entry and invalidates the cache.
func (s *Service) Upsert(ctx context.Context, entry Entry) error {
	if entry.RoleID <= 0 || entry.PermissionID <= 0 {
		return errors.New("authz: role and permission ids required")
	}
	if err := s.store.UpsertEntry(ctx, entry); err != nil {
		return err
	}
	s.afterWrite(ctx, "upsert", entry)
	return nil
}

// Update modifies an existing entry and invalidates the cache.
func (s *Service) Update(ctx context.Context, entry Entry) error {
	ok, err := s.store.UpdateEntry(ctx, entry)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrNotFound
	}
	s.afterWrite(ctx, "update", entry)
	return nil
}

// Delete removes an entry and invalidates the cache.
func (s *Service) Delete(ctx context.Context, roleID, permissionID int64) error {
	ok, err := s.store.DeleteEntry(ctx, roleID, permissionID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrNotFound
	}
	s.afterWrite(ctx, "delete", Entry{RoleID: roleID, PermissionID: permissionID})
	return nil
}

// ClearCache force-invalidates every cached decision.
func (s *Service) ClearCache(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
}

func (s *Service) afterWrite(ctx context.Context, action string, entry Entry) {
	// Invalidate before auditing so no stale allow survives the write.
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
	if s.audit == nil {
		return
	}
	var actorID int64
	if p := PrincipalFromContext(ctx); p != nil {
		actorID = p.UserID
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "matrix." + action,
		Entity:   "role_permissions",
		EntityID: strconv.FormatInt(entry.RoleID, 10) + ":" + strconv.FormatInt(entry.PermissionID, 10),
		Meta: map[string]any{
			"can_create": entry.CanCreate,
			"can_read":   entry.CanRead,
			"can_edit":   entry.CanEdit,
			"can_delete": entry.CanDelete,
		},
	})
	if err != nil {
		s.logger.Warn("authz: audit record failed", slog.Any("error", err))
	}
}
