// Package authz implements the request authorization core: bearer token
// verification, controller-name resolution, the role/permission matrix
// lookup, the decision cache and the gate middleware tying them together.
package authz

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role represents a high-level permission grouping.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Permission names a logical resource ("usuarios", "ciudades", ...) that
// the matrix can grant actions on.
type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Entry is one row of the role/permission matrix: four independent action
// flags for a (role, permission) pair. Absence of an entry means no access
// of any kind.
type Entry struct {
	RoleID       int64 `json:"role_id"`
	PermissionID int64 `json:"permission_id"`
	CanCreate    bool  `json:"can_create"`
	CanRead      bool  `json:"can_read"`
	CanEdit      bool  `json:"can_edit"`
	CanDelete    bool  `json:"can_delete"`
}

// Allows returns the flag stored for the given action.
func (e Entry) Allows(a Action) bool {
	switch a {
	case ActionCreate:
		return e.CanCreate
	case ActionRead:
		return e.CanRead
	case ActionEdit:
		return e.CanEdit
	case ActionDelete:
		return e.CanDelete
	default:
		return false
	}
}

// Action is the coarse CRUD capability derived from the HTTP method.
type Action string

const (
	ActionCreate Action = "crear"
	ActionRead   Action = "leer"
	ActionEdit   Action = "editar"
	ActionDelete Action = "eliminar"
)

// ActionForMethod maps an HTTP method to its matrix action. PUT and PATCH
// intentionally collapse to the same capability.
func ActionForMethod(method string) (Action, bool) {
	switch method {
	case http.MethodGet:
		return ActionRead, true
	case http.MethodPost:
		return ActionCreate, true
	case http.MethodPut, http.MethodPatch:
		return ActionEdit, true
	case http.MethodDelete:
		return ActionDelete, true
	default:
		return "", false
	}
}

// Principal is the authenticated identity derived from a verified token.
// It is materialized fresh per request and never persisted.
type Principal struct {
	UserID      int64
	Email       string
	Role        string
	Permissions []string
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

var spanishLower = cases.Lower(language.Spanish)

// Fold lowercases role and resource names with Spanish-aware casing so
// cache keys and catalog lookups agree on one canonical form.
func Fold(s string) string {
	return spanishLower.String(s)
}
