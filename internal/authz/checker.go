package authz

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// MatrixStore reads the role/permission matrix. Absence of a row is not an
// error; every method reports it through its boolean.
type MatrixStore interface {
	RoleIDByName(ctx context.Context, name string) (int64, bool, error)
	PermissionByName(ctx context.Context, name string) (Permission, bool, error)
	EntryFor(ctx context.Context, roleID, permissionID int64) (Entry, bool, error)
}

// Checker answers "may this role perform this action on this resource". It
// consults the decision cache first, collapses concurrent identical lookups
// with singleflight, and falls back to the matrix store.
type Checker struct {
	store    MatrixStore
	cache    DecisionCache
	resolver *Resolver
	logger   *slog.Logger
	group    singleflight.Group
}

// NewChecker constructs a Checker. cache may be nil to disable caching.
func NewChecker(store MatrixStore, cache DecisionCache, resolver *Resolver, logger *slog.Logger) *Checker {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	return &Checker{store: store, cache: cache, resolver: resolver, logger: logger}
}

// Allowed resolves the decision for (role, resource segment, action).
// Missing role, permission or entry all mean false with a nil error; only
// backend failures return an error, and those must fail closed upstream.
func (c *Checker) Allowed(ctx context.Context, role, resource string, action Action) (bool, error) {
	role = Fold(role)
	resource = Fold(resource)

	if c.cache != nil {
		if allowed, ok := c.cache.Get(ctx, role, resource, action); ok {
			return allowed, nil
		}
	}

	key := decisionKey(role, resource, action)
	resultCh := c.group.DoChan(key, func() (interface{}, error) {
		// Detach from the request: a lookup finishing after the client
		// goes away may still legitimately populate the cache.
		lookupCtx := context.WithoutCancel(ctx)
		allowed, err := c.lookup(lookupCtx, role, resource, action)
		if err != nil {
			return false, err
		}
		if c.cache != nil {
			c.cache.Put(lookupCtx, role, resource, action, allowed)
		}
		return allowed, nil
	})

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-resultCh:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (c *Checker) lookup(ctx context.Context, role, resource string, action Action) (bool, error) {
	roleID, ok, err := c.store.RoleIDByName(ctx, role)
	if err != nil {
		return false, err
	}
	if !ok {
		c.logger.Warn("authz: role not in catalog", slog.String("role", role))
		return false, nil
	}

	var (
		perm  Permission
		found bool
	)
	for _, variant := range c.resolver.Variants(resource) {
		perm, found, err = c.store.PermissionByName(ctx, variant)
		if err != nil {
			return false, err
		}
		if found {
			break
		}
	}
	if !found {
		c.logger.Warn("authz: no permission matches resource", slog.String("resource", resource))
		return false, nil
	}

	entry, ok, err := c.store.EntryFor(ctx, roleID, perm.ID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return entry.Allows(action), nil
}

// InvalidateCache drops every cached decision. Wired as the hook the matrix
// admin endpoints call after each write.
func (c *Checker) InvalidateCache(ctx context.Context) {
	if c.cache != nil {
		c.cache.InvalidateAll(ctx)
	}
}
