package repository

import (
	"context"
	"database/sql"
	"time"

	"billcalls/backend/services/calls-service/internal/models"
)

// InvoiceRepository reads call invoices.
type InvoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository returns repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// ListBySource returns invoices of calls made by source whose end date falls in [from, to).
func (r *InvoiceRepository) ListBySource(ctx context.Context, source string, from, to time.Time) ([]models.Invoice, error) {
	const query = `
		SELECT i.id, i.call_id, c.source, c.destination, i.started_at, i.ended_at, i.end_date, i.price, i.created_at
		FROM call_invoices i
		JOIN calls c ON c.id = i.call_id
		WHERE c.source = $1 AND i.end_date >= $2 AND i.end_date < $3
		ORDER BY i.started_at, i.call_id
	`
	rows, err := r.db.QueryContext(ctx, query, source, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(
			&inv.ID,
			&inv.CallID,
			&inv.Source,
			&inv.Destination,
			&inv.StartedAt,
			&inv.EndedAt,
			&inv.EndDate,
			&inv.Price,
			&inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		inv.StartedAt = inv.StartedAt.UTC()
		inv.EndedAt = inv.EndedAt.UTC()
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}
