package service

import (
	"errors"
	"strings"
)

var (
	// ErrNoStartRecord is returned when an end event arrives before its start.
	ErrNoStartRecord = errors.New("calls: there is no start record for this call, the end of a call cannot be logged before it starts")
	// ErrEndBeforeStart is returned when the end timestamp is not after the start.
	ErrEndBeforeStart = errors.New("calls: the call end time cannot be earlier or equal than the start time")
	// ErrDuplicate is returned when the call or event was already recorded.
	ErrDuplicate = errors.New("calls: record already registered")
	// ErrSourceRequired is returned when invoices are requested without a number.
	ErrSourceRequired = errors.New("invoices: you need to enter the calling phone number")
	// ErrInvalidPeriod is returned for reference months not in MMYYYY form.
	ErrInvalidPeriod = errors.New("invoices: reference period must use the MMYYYY format")
	// ErrPeriodNotClosed is returned for the current or a future month.
	ErrPeriodNotClosed = errors.New("invoices: you cannot request an invoice for a month that is not yet completed")
	// ErrNoInvoices is returned when the period holds no invoices for the number.
	ErrNoInvoices = errors.New("invoices: no invoices found")
)

// ValidationError lists every problem found in a call log request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "calls: invalid request: " + strings.Join(e.Problems, " ")
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
