package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Default tariff values.
const (
	DefaultReducedStart   = 22
	DefaultReducedEnd     = 6
	DefaultStandingCharge = "0.36"
	DefaultPerMinuteRate  = "0.09"
)

// Tariff describes the daily fare plan. Hours in [ReducedStart, 24) and
// [0, ReducedEnd) are reduced fare and carry no per-minute charge.
type Tariff struct {
	ReducedStart   int             `json:"reduced_start"`
	ReducedEnd     int             `json:"reduced_end"`
	StandingCharge decimal.Decimal `json:"standing_charge"`
	PerMinuteRate  decimal.Decimal `json:"per_minute_rate"`
}

// DefaultTariff returns the standard 22h-6h reduced fare plan.
func DefaultTariff() Tariff {
	return Tariff{
		ReducedStart:   DefaultReducedStart,
		ReducedEnd:     DefaultReducedEnd,
		StandingCharge: decimal.RequireFromString(DefaultStandingCharge),
		PerMinuteRate:  decimal.RequireFromString(DefaultPerMinuteRate),
	}
}

// ParseTariff builds a tariff from textual amounts and validates it.
func ParseTariff(reducedStart, reducedEnd int, standingCharge, perMinuteRate string) (Tariff, error) {
	standing, err := decimal.NewFromString(standingCharge)
	if err != nil {
		return Tariff{}, fmt.Errorf("%w: standing charge %q: %v", ErrInvalidConfiguration, standingCharge, err)
	}
	rate, err := decimal.NewFromString(perMinuteRate)
	if err != nil {
		return Tariff{}, fmt.Errorf("%w: per minute rate %q: %v", ErrInvalidConfiguration, perMinuteRate, err)
	}

	t := Tariff{
		ReducedStart:   reducedStart,
		ReducedEnd:     reducedEnd,
		StandingCharge: standing,
		PerMinuteRate:  rate,
	}
	if err := t.Validate(); err != nil {
		return Tariff{}, err
	}
	return t, nil
}

// Validate checks 0 <= ReducedEnd < ReducedStart <= 24 and non-negative charges.
func (t Tariff) Validate() error {
	switch {
	case t.ReducedEnd < 0:
		return fmt.Errorf("%w: reduced end hour %d is negative", ErrInvalidConfiguration, t.ReducedEnd)
	case t.ReducedStart > 24:
		return fmt.Errorf("%w: reduced start hour %d is past midnight", ErrInvalidConfiguration, t.ReducedStart)
	case t.ReducedEnd >= t.ReducedStart:
		return fmt.Errorf("%w: reduced end hour %d must be before reduced start hour %d",
			ErrInvalidConfiguration, t.ReducedEnd, t.ReducedStart)
	case t.StandingCharge.IsNegative():
		return fmt.Errorf("%w: standing charge %s is negative", ErrInvalidConfiguration, t.StandingCharge)
	case t.PerMinuteRate.IsNegative():
		return fmt.Errorf("%w: per minute rate %s is negative", ErrInvalidConfiguration, t.PerMinuteRate)
	}
	return nil
}

// String renders the tariff for logs and the CLI.
func (t Tariff) String() string {
	return fmt.Sprintf("reduced %02d:00-%02d:00, standing charge %s, per minute %s",
		t.ReducedStart, t.ReducedEnd, t.StandingCharge, t.PerMinuteRate)
}
