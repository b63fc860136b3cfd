package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the priced record of a completed call.
type Invoice struct {
	ID          int64           `db:"id" json:"id"`
	CallID      int64           `db:"call_id" json:"call_id"`
	Source      string          `db:"source" json:"source"`
	Destination string          `db:"destination" json:"destination"`
	StartedAt   time.Time       `db:"started_at" json:"started_at"`
	EndedAt     time.Time       `db:"ended_at" json:"ended_at"`
	EndDate     time.Time       `db:"end_date" json:"end_date"`
	Price       decimal.Decimal `db:"price" json:"price"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
