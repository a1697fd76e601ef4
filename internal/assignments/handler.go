package assignments

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cqtrails/cqtrails-admin/internal/platform/httpx"
	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Handler exposes the /vehiculosreservaciones endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// Routes mounts the assignment endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{vehicleID}/{reservationID}", h.get)
	r.Put("/{vehicleID}/{reservationID}", h.update)
	r.Delete("/{vehicleID}/{reservationID}", h.delete)
	return r
}

type assignmentForm struct {
	VehicleID     int64 `json:"id_vehiculo" validate:"required,gt=0"`
	ReservationID int64 `json:"id_reservacion" validate:"required,gt=0"`
}

type statusForm struct {
	Status string `json:"estatus_asignacion" validate:"required"`
}

func pairFromURL(r *http.Request) (int64, int64, error) {
	vehicleID, err := strconv.ParseInt(chi.URLParam(r, "vehicleID"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	reservationID, err := strconv.ParseInt(chi.URLParam(r, "reservationID"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return vehicleID, reservationID, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), shared.WindowFromRequest(r))
	if err != nil {
		h.logger.Error("list assignments failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Asignaciones obtenidas", items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	vehicleID, reservationID, err := pairFromURL(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificadores inválidos")
		return
	}
	assignment, err := h.service.Get(r.Context(), vehicleID, reservationID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Asignación obtenida", assignment)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form assignmentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Vehículo y reservación son obligatorios")
		return
	}
	created, err := h.service.Create(r.Context(), form.VehicleID, form.ReservationID)
	if err != nil {
		h.logger.Error("create assignment failed", "error", err,
			"vehicle", form.VehicleID, "reservation", form.ReservationID)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Asignación creada", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	vehicleID, reservationID, err := pairFromURL(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificadores inválidos")
		return
	}
	var form statusForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "El estatus es obligatorio")
		return
	}
	updated, err := h.service.UpdateStatus(r.Context(), vehicleID, reservationID, form.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Asignación actualizada", updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	vehicleID, reservationID, err := pairFromURL(r)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificadores inválidos")
		return
	}
	if err := h.service.Delete(r.Context(), vehicleID, reservationID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Asignación eliminada", nil)
}
