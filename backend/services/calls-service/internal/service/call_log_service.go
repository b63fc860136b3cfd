package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"billcalls/backend/services/calls-service/internal/billing"
	"billcalls/backend/services/calls-service/internal/models"
	"billcalls/backend/services/calls-service/internal/phone"
	"billcalls/backend/services/calls-service/internal/repository"
)

// CallStore defines storage contract used by the call log service.
type CallStore interface {
	CreateWithStart(ctx context.Context, call *models.Call, log *models.CallLog) error
	GetLog(ctx context.Context, callID int64, eventType string) (*models.CallLog, error)
	CompleteWithInvoice(ctx context.Context, log *models.CallLog, invoice *models.Invoice) error
}

// CallLogService records call start/end events and bills finished calls.
type CallLogService struct {
	calls      CallStore
	calculator *billing.Calculator
	cache      InvoiceCache
	logger     *zap.Logger
}

// RecordInput is a single call event as received from the network.
type RecordInput struct {
	Type        string
	CallID      int64
	Timestamp   time.Time
	Source      string
	Destination string
}

// NewCallLogService builds service. cache may be nil.
func NewCallLogService(calls CallStore, calculator *billing.Calculator, cache InvoiceCache, logger *zap.Logger) *CallLogService {
	return &CallLogService{
		calls:      calls,
		calculator: calculator,
		cache:      cache,
		logger:     logger,
	}
}

// Record validates and stores an event. An end event also produces the call's invoice.
func (s *CallLogService) Record(ctx context.Context, input RecordInput) (*models.CallLog, error) {
	if input.Type == "" {
		input.Type = models.EventStart
	}

	verr := &ValidationError{}
	if input.Type != models.EventStart && input.Type != models.EventEnd {
		verr.add(fmt.Sprintf("%q is not a valid choice for 'type', use 'start' or 'end'.", input.Type))
	}
	if input.CallID <= 0 {
		verr.add("The 'call_id' field is required.")
	}
	if input.Timestamp.IsZero() {
		verr.add("The 'timestamp' field is required.")
	}

	switch input.Type {
	case models.EventStart:
		validateStart(input, verr)
	case models.EventEnd:
		validateEnd(input, verr)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	input.Timestamp = billing.StripZone(input.Timestamp)
	if input.Type == models.EventStart {
		return s.recordStart(ctx, input)
	}
	return s.recordEnd(ctx, input)
}

func validateStart(input RecordInput, verr *ValidationError) {
	if input.Source == "" {
		verr.add("The 'source' field must be entered when the record 'type' is 'start'.")
	} else if err := phone.Validate(input.Source); err != nil {
		verr.add(fmt.Sprintf("%s is not a valid phone number.", input.Source))
	}
	if input.Destination == "" {
		verr.add("The 'destination' field must be entered when the record 'type' is 'start'.")
	} else if err := phone.Validate(input.Destination); err != nil {
		verr.add(fmt.Sprintf("%s is not a valid phone number.", input.Destination))
	}
	if input.Source != "" && input.Source == input.Destination {
		verr.add("Source and destination cannot contain the same value.")
	}
}

func validateEnd(input RecordInput, verr *ValidationError) {
	if input.Source != "" {
		verr.add("The 'source' field should be entered only when the record 'type' is 'start'.")
	}
	if input.Destination != "" {
		verr.add("The 'destination' field should be entered only when the record 'type' is 'start'.")
	}
}

func (s *CallLogService) recordStart(ctx context.Context, input RecordInput) (*models.CallLog, error) {
	call := &models.Call{
		ID:          input.CallID,
		Source:      input.Source,
		Destination: input.Destination,
	}
	log := &models.CallLog{
		CallID:      input.CallID,
		Type:        models.EventStart,
		Timestamp:   input.Timestamp,
		Source:      input.Source,
		Destination: input.Destination,
	}

	if err := s.calls.CreateWithStart(ctx, call, log); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: call %d", ErrDuplicate, input.CallID)
		}
		return nil, err
	}

	s.logger.Info("call started",
		zap.Int64("call_id", call.ID),
		zap.String("source", call.Source),
		zap.Time("timestamp", log.Timestamp),
	)
	return log, nil
}

func (s *CallLogService) recordEnd(ctx context.Context, input RecordInput) (*models.CallLog, error) {
	start, err := s.calls.GetLog(ctx, input.CallID, models.EventStart)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoStartRecord
		}
		return nil, err
	}

	startedAt := billing.StripZone(start.Timestamp)
	if !input.Timestamp.After(startedAt) {
		return nil, ErrEndBeforeStart
	}

	price, err := s.calculator.Price(startedAt, input.Timestamp)
	if err != nil {
		return nil, err
	}

	log := &models.CallLog{
		CallID:      input.CallID,
		Type:        models.EventEnd,
		Timestamp:   input.Timestamp,
		Source:      start.Source,
		Destination: start.Destination,
	}
	y, m, d := input.Timestamp.Date()
	invoice := &models.Invoice{
		CallID:      input.CallID,
		Source:      start.Source,
		Destination: start.Destination,
		StartedAt:   startedAt,
		EndedAt:     input.Timestamp,
		EndDate:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Price:       price,
	}

	if err := s.calls.CompleteWithInvoice(ctx, log, invoice); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: end of call %d", ErrDuplicate, input.CallID)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, invoice.Source, invoice.EndDate); err != nil {
			s.logger.Warn("failed to invalidate invoice cache", zap.Int64("call_id", input.CallID), zap.Error(err))
		}
	}

	s.logger.Info("call invoiced",
		zap.Int64("call_id", invoice.CallID),
		zap.Int64("invoice_id", invoice.ID),
		zap.String("price", price.String()),
		zap.String("duration", billing.Duration(startedAt, input.Timestamp)),
	)
	return log, nil
}
