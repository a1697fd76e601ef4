package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/cqtrails/cqtrails-admin/internal/jobs"
)

// ExpireReservationsJob cancels reservations still pending once their start
// date has passed. It runs on a cron schedule.
type ExpireReservationsJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewExpireReservationsJob initialises the expiry handler.
func NewExpireReservationsJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *ExpireReservationsJob {
	return &ExpireReservationsJob{
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle cancels stale pending reservations.
func (j *ExpireReservationsJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("expire reservations: handler not configured")
	}
	tracker := j.Metrics.Track(TaskTypeExpireReservations)
	now := j.clock()
	tag, err := j.Pool.Exec(ctx,
		`UPDATE reservations SET status = 'Cancelada'
		  WHERE status = 'Pendiente' AND start_date < $1`, now)
	if err != nil {
		j.Logger.Error("expire reservations failed", "error", err)
		return tracker.End(err)
	}
	if n := tag.RowsAffected(); n > 0 {
		j.Logger.Info("expired stale reservations", "count", n)
	}
	return tracker.End(nil)
}
