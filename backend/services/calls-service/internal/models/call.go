package models

import "time"

// Call links the originating and receiving numbers of a phone call.
type Call struct {
	ID          int64     `db:"id" json:"id"`
	Source      string    `db:"source" json:"source"`
	Destination string    `db:"destination" json:"destination"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
