package vehicles

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cqtrails/cqtrails-admin/internal/platform/httpx"
	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Handler exposes the /vehiculos endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// Routes mounts the fleet endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Patch("/{id}/disponibilidad", h.setAvailability)
	r.Delete("/{id}", h.delete)
	return r
}

type vehicleForm struct {
	Plate       string  `json:"placa" validate:"required"`
	Model       string  `json:"modelo" validate:"required"`
	VehicleType string  `json:"tipo_vehiculo" validate:"required"`
	Capacity    int     `json:"capacidad" validate:"required,gt=0"`
	Year        int     `json:"anio" validate:"required,gte=1990"`
	Price       float64 `json:"precio" validate:"required,gt=0"`
	IsAvailable *bool   `json:"disponible"`
}

func (f vehicleForm) toVehicle(id int64) Vehicle {
	available := true
	if f.IsAvailable != nil {
		available = *f.IsAvailable
	}
	return Vehicle{
		ID:          id,
		Plate:       f.Plate,
		Model:       f.Model,
		VehicleType: f.VehicleType,
		Capacity:    f.Capacity,
		Year:        f.Year,
		Price:       f.Price,
		IsAvailable: available,
	}
}

type availabilityForm struct {
	IsAvailable *bool `json:"disponible" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), shared.WindowFromRequest(r))
	if err != nil {
		h.logger.Error("list vehicles failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Vehículos obtenidos", items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	vehicle, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Vehículo obtenido", vehicle)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form vehicleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de vehículo inválidos")
		return
	}
	created, err := h.service.Create(r.Context(), form.toVehicle(0))
	if err != nil {
		h.logger.Error("create vehicle failed", "error", err, "plate", form.Plate)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Vehículo creado", created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var form vehicleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Datos de vehículo inválidos")
		return
	}
	updated, err := h.service.Update(r.Context(), form.toVehicle(id))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Vehículo actualizado", updated)
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var form availabilityForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "El campo disponible es obligatorio")
		return
	}
	updated, err := h.service.SetAvailability(r.Context(), id, *form.IsAvailable)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Disponibilidad actualizada", updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Vehículo eliminado", nil)
}
