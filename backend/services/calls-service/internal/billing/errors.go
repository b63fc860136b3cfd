package billing

import "errors"

var (
	// ErrInvalidInterval is returned when a call does not end after it starts.
	ErrInvalidInterval = errors.New("billing: call end must be after call start")
	// ErrInvalidConfiguration is returned for tariffs that break the fare window rules.
	ErrInvalidConfiguration = errors.New("billing: invalid tariff configuration")
)
