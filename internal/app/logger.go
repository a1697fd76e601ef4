package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the application logger. Production always logs JSON so
// the audit and authz warnings stay machine readable; elsewhere the format
// follows LOG_FORMAT (default pretty text).
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	if cfg != nil && (cfg.LogFormat == "json" || cfg.IsProduction()) {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)).
			With(slog.String("service", "cqtrails-admin"))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
