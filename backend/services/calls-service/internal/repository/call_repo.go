package repository

import (
	"context"
	"database/sql"

	libdb "billcalls/backend/libs/db"
	"billcalls/backend/services/calls-service/internal/models"
)

// CallRepository persists calls, their start/end logs and invoices.
type CallRepository struct {
	db *sql.DB
}

// NewCallRepository returns repository.
func NewCallRepository(db *sql.DB) *CallRepository {
	return &CallRepository{db: db}
}

// CreateWithStart inserts the call and its start log in one transaction.
func (r *CallRepository) CreateWithStart(ctx context.Context, call *models.Call, log *models.CallLog) error {
	const insertCall = `
		INSERT INTO calls (id, source, destination, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`
	err := libdb.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, insertCall, call.ID, call.Source, call.Destination).
			Scan(&call.CreatedAt); err != nil {
			return err
		}
		return insertLog(ctx, tx, log)
	})
	return mapError(err)
}

// GetLog returns the log of the given type for a call, with the call's numbers.
func (r *CallRepository) GetLog(ctx context.Context, callID int64, eventType string) (*models.CallLog, error) {
	const query = `
		SELECT l.id, l.call_id, l.type, l.logged_at, c.source, c.destination
		FROM call_logs l
		JOIN calls c ON c.id = l.call_id
		WHERE l.call_id = $1 AND l.type = $2
	`
	var log models.CallLog
	if err := r.db.QueryRowContext(ctx, query, callID, eventType).Scan(
		&log.ID,
		&log.CallID,
		&log.Type,
		&log.Timestamp,
		&log.Source,
		&log.Destination,
	); err != nil {
		return nil, mapError(err)
	}
	log.Timestamp = log.Timestamp.UTC()
	return &log, nil
}

// CompleteWithInvoice stores the end log and the call's invoice atomically.
func (r *CallRepository) CompleteWithInvoice(ctx context.Context, log *models.CallLog, invoice *models.Invoice) error {
	const insertInvoice = `
		INSERT INTO call_invoices (call_id, started_at, ended_at, end_date, price, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	err := libdb.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertLog(ctx, tx, log); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, insertInvoice,
			invoice.CallID,
			invoice.StartedAt,
			invoice.EndedAt,
			invoice.EndDate,
			invoice.Price,
		).Scan(&invoice.ID, &invoice.CreatedAt)
	})
	return mapError(err)
}

func insertLog(ctx context.Context, tx *sql.Tx, log *models.CallLog) error {
	const query = `
		INSERT INTO call_logs (call_id, type, logged_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return tx.QueryRowContext(ctx, query, log.CallID, log.Type, log.Timestamp).Scan(&log.ID)
}
