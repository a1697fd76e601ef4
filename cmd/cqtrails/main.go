package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cqtrails/cqtrails-admin/internal/app"
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
	"github.com/cqtrails/cqtrails-admin/internal/platform/cache"
	"github.com/cqtrails/cqtrails-admin/internal/platform/db"
	"github.com/cqtrails/cqtrails-admin/internal/reservations"
	"github.com/cqtrails/cqtrails-admin/internal/roles"
	"github.com/cqtrails/cqtrails-admin/internal/shared"
	"github.com/cqtrails/cqtrails-admin/internal/users"
	"github.com/cqtrails/cqtrails-admin/internal/vehicles"
	"github.com/cqtrails/cqtrails-admin/jobs"
	"github.com/cqtrails/cqtrails-admin/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Redis backs the job queue and optionally the decision cache.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	verifier, err := authz.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	if err != nil {
		logger.Error("init verifier", slog.Any("error", err))
		os.Exit(1)
	}

	var decisionCache authz.DecisionCache
	switch cfg.CacheBackend {
	case "memory":
		decisionCache = authz.NewMemoryCache(cfg.CacheTTL)
	case "redis":
		decisionCache = authz.NewRedisCache(redisClient, cfg.CacheTTL)
	case "off":
		decisionCache = nil
	}

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)

	matrixRepo := authz.NewRepository(dbpool)
	resolver := authz.NewResolver(cfg.ResourceAliases)
	checker := authz.NewChecker(matrixRepo, decisionCache, resolver, logger)
	matrixService := authz.NewService(matrixRepo, checker, auditLogger, logger)
	matrixHandler := authz.NewHandler(logger, matrixService)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, verifier, cfg.JWTTTL)
	authHandler := auth.NewHandler(authService, logger)

	gate := authz.NewGate(authz.GateConfig{
		Verifier:       verifier,
		Checker:        checker,
		Directory:      authRepo,
		Logger:         logger,
		SuperuserRole:  cfg.SuperuserRole,
		PublicPrefixes: cfg.PublicPrefixes,
		OnDenial:       metrics.RecordDenial,
	})

	queue, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	notificationsRepo := notifications.NewRepository(dbpool)

	var renderer invoices.Renderer
	if cfg.GotenbergURL != "" {
		renderer = report.NewClient(cfg.GotenbergURL)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Gate:                 gate,
		Metrics:              metrics,
		AuthHandler:          authHandler,
		MatrixHandler:        matrixHandler,
		CitiesHandler:        cities.NewHandler(logger, cities.NewService(cities.NewRepository(dbpool))),
		RolesHandler:         roles.NewHandler(logger, roles.NewService(roles.NewRepository(dbpool))),
		PermissionsHandler:   permissions.NewHandler(logger, permissions.NewService(permissions.NewRepository(dbpool), checker)),
		UsersHandler:         users.NewHandler(logger, users.NewService(users.NewRepository(dbpool))),
		CompaniesHandler:     companies.NewHandler(logger, companies.NewService(companies.NewRepository(dbpool))),
		EmployeesHandler:     employees.NewHandler(logger, employees.NewService(employees.NewRepository(dbpool))),
		VehiclesHandler:      vehicles.NewHandler(logger, vehicles.NewService(vehicles.NewRepository(dbpool))),
		ReservationsHandler:  reservations.NewHandler(logger, reservations.NewService(reservations.NewRepository(dbpool), notificationsRepo, queue, logger)),
		AssignmentsHandler:   assignments.NewHandler(logger, assignments.NewService(assignments.NewRepository(dbpool))),
		InvoicesHandler:      invoices.NewHandler(logger, invoices.NewService(invoices.NewRepository(dbpool), renderer)),
		NotificationsHandler: notifications.NewHandler(logger, notifications.NewService(notificationsRepo)),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
