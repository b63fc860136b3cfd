package models

import "time"

// Call log event types.
const (
	EventStart = "start"
	EventEnd   = "end"
)

// CallLog records the start or end of a call.
type CallLog struct {
	ID          int64     `db:"id" json:"id"`
	CallID      int64     `db:"call_id" json:"call_id"`
	Type        string    `db:"type" json:"type"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Source      string    `db:"-" json:"source"`
	Destination string    `db:"-" json:"destination"`
}
