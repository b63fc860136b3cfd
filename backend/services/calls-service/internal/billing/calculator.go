// Package billing prices completed calls under a time-of-day tariff.
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Calculator prices call intervals. It holds no mutable state and is safe for
// concurrent use.
type Calculator struct {
	tariff Tariff
}

// NewCalculator validates the tariff and returns a calculator bound to it.
func NewCalculator(tariff Tariff) (*Calculator, error) {
	if err := tariff.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{tariff: tariff}, nil
}

// Tariff returns the tariff the calculator was built with.
func (c *Calculator) Tariff() Tariff {
	return c.tariff
}

// Price returns the standing charge plus every whole standard-fare minute of
// the call. Zone information on start and end is dropped, not converted.
func (c *Calculator) Price(start, end time.Time) (decimal.Decimal, error) {
	start, end = StripZone(start), StripZone(end)
	if !end.After(start) {
		return decimal.Zero, fmt.Errorf("%w: start %s, end %s",
			ErrInvalidInterval, start.Format(time.DateTime), end.Format(time.DateTime))
	}

	price := c.tariff.StandingCharge
	for {
		next := c.nextStandardStart(start)
		switch {
		case c.isReduced(start):
			if end.Before(next) {
				return price, nil
			}
		case c.isReduced(end):
			price = price.Add(c.charge(minutesUntil(c.tariff.ReducedStart, start)))
			if next.After(end) {
				return price, nil
			}
		case !end.Before(next):
			price = price.Add(c.charge(minutesUntil(c.tariff.ReducedStart, start)))
		default:
			return price.Add(c.charge(wholeMinutes(end.Sub(start)))), nil
		}
		// Every pass moves start to a later day, so the loop ends.
		start = next
	}
}

func (c *Calculator) isReduced(ts time.Time) bool {
	return ts.Hour() >= c.tariff.ReducedStart || ts.Hour() < c.tariff.ReducedEnd
}

// nextStandardStart is ReducedEnd o'clock on the day after ts.
func (c *Calculator) nextStandardStart(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d+1, c.tariff.ReducedEnd, 0, 0, 0, ts.Location())
}

func (c *Calculator) charge(minutes int64) decimal.Decimal {
	return c.tariff.PerMinuteRate.Mul(decimal.NewFromInt(minutes))
}

func minutesUntil(hour int, ts time.Time) int64 {
	y, m, d := ts.Date()
	return wholeMinutes(time.Date(y, m, d, hour, 0, 0, 0, ts.Location()).Sub(ts))
}

func wholeMinutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}

// StripZone keeps the wall clock of t and replaces its location with UTC.
func StripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Duration renders the elapsed call time as "{hours}h{minutes}m{seconds}s"
// with whole days folded into the hours.
func Duration(start, end time.Time) string {
	elapsed := StripZone(end).Sub(StripZone(start))
	hours := elapsed / time.Hour
	elapsed -= hours * time.Hour
	minutes := elapsed / time.Minute
	elapsed -= minutes * time.Minute
	seconds := elapsed / time.Second
	return fmt.Sprintf("%dh%dm%ds", int64(hours), int64(minutes), int64(seconds))
}
