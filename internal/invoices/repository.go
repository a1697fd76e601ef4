package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cqtrails/cqtrails-admin/internal/shared"
)

// Repository abstracts pre-invoice persistence.
type Repository interface {
	List(ctx context.Context, window shared.ListWindow) ([]PreInvoice, error)
	Get(ctx context.Context, id int64) (*PreInvoice, error)
	Create(ctx context.Context, invoice PreInvoice) (int64, error)
	Update(ctx context.Context, invoice PreInvoice) error
	Delete(ctx context.Context, id int64) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const invoiceColumns = `id, reservation_id, vehicle_cost, extra_cost, total_cost, generated_at, pdf_file`

func (r *pgRepository) List(ctx context.Context, window shared.ListWindow) ([]PreInvoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM pre_invoices ORDER BY id OFFSET $1 LIMIT $2`,
		window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PreInvoice
	for rows.Next() {
		var inv PreInvoice
		if err := rows.Scan(&inv.ID, &inv.ReservationID, &inv.VehicleCost, &inv.ExtraCost,
			&inv.TotalCost, &inv.GeneratedAt, &inv.PDFFile); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*PreInvoice, error) {
	var inv PreInvoice
	err := r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM pre_invoices WHERE id = $1`, id).
		Scan(&inv.ID, &inv.ReservationID, &inv.VehicleCost, &inv.ExtraCost,
			&inv.TotalCost, &inv.GeneratedAt, &inv.PDFFile)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *pgRepository) Create(ctx context.Context, invoice PreInvoice) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO pre_invoices (reservation_id, vehicle_cost, extra_cost, total_cost, pdf_file)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		invoice.ReservationID, invoice.VehicleCost, invoice.ExtraCost,
		invoice.TotalCost, invoice.PDFFile).Scan(&id)
	if shared.IsForeignKeyViolation(err) {
		return 0, fmt.Errorf("%w: reservación inexistente", shared.ErrValidation)
	}
	return id, err
}

func (r *pgRepository) Update(ctx context.Context, invoice PreInvoice) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE pre_invoices SET vehicle_cost = $2, extra_cost = $3, total_cost = $4, pdf_file = $5
		  WHERE id = $1`,
		invoice.ID, invoice.VehicleCost, invoice.ExtraCost, invoice.TotalCost, invoice.PDFFile)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pre_invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
