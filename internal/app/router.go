package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cqtrails/cqtrails-admin/internal/assignments"
	"github.com/cqtrails/cqtrails-admin/internal/auth"
	"github.com/cqtrails/cqtrails-admin/internal/authz"
	"github.com/cqtrails/cqtrails-admin/internal/cities"
	"github.com/cqtrails/cqtrails-admin/internal/companies"
	"github.com/cqtrails/cqtrails-admin/internal/employees"
	"github.com/cqtrails/cqtrails-admin/internal/invoices"
	"github.com/cqtrails/cqtrails-admin/internal/notifications"
	"github.com/cqtrails/cqtrails-admin/internal/observability"
	"github.com/cqtrails/cqtrails-admin/internal/permissions"
	"github.com/cqtrails/cqtrails-admin/internal/reservations"
	"github.com/cqtrails/cqtrails-admin/internal/roles"
	"github.com/cqtrails/cqtrails-admin/internal/users"
	"github.com/cqtrails/cqtrails-admin/internal/vehicles"
	"github.com/cqtrails/cqtrails-admin/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Gate    *authz.Gate
	Metrics *observability.Metrics

	AuthHandler          *auth.Handler
	MatrixHandler        *authz.Handler
	CitiesHandler        *cities.Handler
	RolesHandler         *roles.Handler
	PermissionsHandler   *permissions.Handler
	UsersHandler         *users.Handler
	CompaniesHandler     *companies.Handler
	EmployeesHandler     *employees.Handler
	VehiclesHandler      *vehicles.Handler
	ReservationsHandler  *reservations.Handler
	AssignmentsHandler   *assignments.Handler
	InvoicesHandler      *invoices.Handler
	NotificationsHandler *notifications.Handler
}

// NewRouter constructs the chi.Router with the full API surface behind the
// authorization gate.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(params.Gate.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Get("/docs", serveStatic("static/docs.html", "text/html; charset=utf-8"))
	r.Get("/openapi.json", serveStatic("static/openapi.json", "application/json"))

	r.Mount("/auth", params.AuthHandler.Routes())
	r.Mount("/rolespermisos", params.MatrixHandler.Routes())
	r.Mount("/ciudades", params.CitiesHandler.Routes())
	r.Mount("/roles", params.RolesHandler.Routes())
	r.Mount("/permisos", params.PermissionsHandler.Routes())
	r.Mount("/usuarios", params.UsersHandler.Routes())
	r.Mount("/empresas", params.CompaniesHandler.Routes())
	r.Mount("/empleados", params.EmployeesHandler.Routes())
	r.Mount("/vehiculos", params.VehiclesHandler.Routes())
	r.Mount("/reservaciones", params.ReservationsHandler.Routes())
	r.Mount("/vehiculosreservaciones", params.AssignmentsHandler.Routes())
	r.Mount("/prefacturas", params.InvoicesHandler.Routes())
	r.Mount("/notificaciones", params.NotificationsHandler.Routes())

	return r
}

func serveStatic(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := web.Static.ReadFile(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}
