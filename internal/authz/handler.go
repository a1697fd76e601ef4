package authz

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cqtrails/cqtrails-admin/internal/platform/httpx"
	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Handler exposes the permission-matrix admin endpoints under
// /rolespermisos. Access to them is governed by the matrix itself (the
// catalog carries a "rolespermisos" permission).
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// Routes mounts the matrix admin endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/rol/{roleID}", h.byRole)
	r.Get("/nombre/{roleName}", h.byRoleName)
	r.Post("/", h.upsert)
	r.Put("/{roleID}/{permissionID}", h.update)
	r.Delete("/{roleID}/{permissionID}", h.delete)
	r.Get("/limpiar-cache", h.clearCache)
	return r
}

type entryForm struct {
	RoleID       int64 `json:"role_id" validate:"required,gt=0"`
	PermissionID int64 `json:"permission_id" validate:"required,gt=0"`
	CanCreate    bool  `json:"can_create"`
	CanRead      bool  `json:"can_read"`
	CanEdit      bool  `json:"can_edit"`
	CanDelete    bool  `json:"can_delete"`
}

func (f entryForm) entry() Entry {
	return Entry{
		RoleID:       f.RoleID,
		PermissionID: f.PermissionID,
		CanCreate:    f.CanCreate,
		CanRead:      f.CanRead,
		CanEdit:      f.CanEdit,
		CanDelete:    f.CanDelete,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListEntries(r.Context())
	if err != nil {
		h.logger.Error("list matrix entries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Permisos de roles obtenidos", rows)
}

func (h *Handler) byRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificador de rol inválido")
		return
	}
	rows, err := h.service.EntriesForRole(r.Context(), roleID)
	if err != nil {
		h.logger.Error("matrix entries by role", slog.Any("error", err), slog.Int64("role_id", roleID))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Permisos del rol obtenidos", rows)
}

func (h *Handler) byRoleName(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.EntriesForRoleName(r.Context(), chi.URLParam(r, "roleName"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Permisos del rol obtenidos", rows)
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var form entryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.service.Upsert(r.Context(), form.entry()); err != nil {
		h.logger.Error("upsert matrix entry", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Permiso de rol guardado", form.entry())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	roleID, err1 := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	permissionID, err2 := strconv.ParseInt(chi.URLParam(r, "permissionID"), 10, 64)
	if err1 != nil || err2 != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificadores inválidos")
		return
	}
	var form entryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	entry := form.entry()
	entry.RoleID = roleID
	entry.PermissionID = permissionID
	if err := h.service.Update(r.Context(), entry); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Permiso de rol actualizado", entry)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	roleID, err1 := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	permissionID, err2 := strconv.ParseInt(chi.URLParam(r, "permissionID"), 10, 64)
	if err1 != nil || err2 != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificadores inválidos")
		return
	}
	if err := h.service.Delete(r.Context(), roleID, permissionID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Permiso de rol eliminado", nil)
}

func (h *Handler) clearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache(r.Context())
	httpx.OK(w, http.StatusOK, "Caché de permisos limpiada", nil)
}
