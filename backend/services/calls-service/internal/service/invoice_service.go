package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"billcalls/backend/services/calls-service/internal/billing"
	"billcalls/backend/services/calls-service/internal/models"
	redisstore "billcalls/backend/services/calls-service/internal/redis"
)

const periodLayout = "012006"

// InvoiceStore defines the read side used for invoice listings.
type InvoiceStore interface {
	ListBySource(ctx context.Context, source string, from, to time.Time) ([]models.Invoice, error)
}

// InvoiceCache caches monthly listings per source number.
type InvoiceCache interface {
	Get(ctx context.Context, source string, period time.Time) ([]models.Invoice, error)
	Set(ctx context.Context, source string, period time.Time, invoices []models.Invoice) error
	Invalidate(ctx context.Context, source string, period time.Time) error
}

// InvoiceView is the presentation of a single invoice.
type InvoiceView struct {
	CallID        int64  `json:"call_id"`
	Price         string `json:"price"`
	Duration      string `json:"duration"`
	CallStartDate string `json:"call_start_date"`
	CallStartTime string `json:"call_start_time"`
	Destination   string `json:"destination"`
}

// InvoiceService answers monthly invoice queries.
type InvoiceService struct {
	store  InvoiceStore
	cache  InvoiceCache
	logger *zap.Logger
	now    func() time.Time
}

// NewInvoiceService builds service. cache may be nil; now defaults to time.Now.
func NewInvoiceService(store InvoiceStore, cache InvoiceCache, logger *zap.Logger, now func() time.Time) *InvoiceService {
	if now == nil {
		now = time.Now
	}
	return &InvoiceService{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    now,
	}
}

// ForPeriod lists the invoices of calls made by source that ended in the
// month given as MMYYYY, or in the previous month when date is empty.
func (s *InvoiceService) ForPeriod(ctx context.Context, source, date string) ([]InvoiceView, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrSourceRequired
	}
	period, err := referencePeriod(strings.TrimSpace(date), s.now())
	if err != nil {
		return nil, err
	}

	invoices, err := s.load(ctx, source, period)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, ErrNoInvoices
	}

	views := make([]InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, newInvoiceView(inv))
	}
	return views, nil
}

func (s *InvoiceService) load(ctx context.Context, source string, period time.Time) ([]models.Invoice, error) {
	if s.cache != nil {
		invoices, err := s.cache.Get(ctx, source, period)
		switch {
		case err == nil:
			return invoices, nil
		case !errors.Is(err, redisstore.ErrCacheMiss):
			s.logger.Warn("failed to read invoice cache", zap.String("source", source), zap.Error(err))
		}
	}

	invoices, err := s.store.ListBySource(ctx, source, period, period.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(invoices) > 0 {
		if err := s.cache.Set(ctx, source, period, invoices); err != nil {
			s.logger.Warn("failed to cache invoices", zap.String("source", source), zap.Error(err))
		}
	}
	return invoices, nil
}

// referencePeriod returns the first day of the requested closed month.
func referencePeriod(date string, now time.Time) (time.Time, error) {
	now = billing.StripZone(now)
	firstDay := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if date == "" {
		return firstDay.AddDate(0, -1, 0), nil
	}

	period, err := time.Parse(periodLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidPeriod
	}
	if !period.Before(firstDay) {
		return time.Time{}, ErrPeriodNotClosed
	}
	return period, nil
}

func newInvoiceView(inv models.Invoice) InvoiceView {
	started := billing.StripZone(inv.StartedAt)
	return InvoiceView{
		CallID:        inv.CallID,
		Price:         inv.Price.StringFixed(2),
		Duration:      billing.Duration(inv.StartedAt, inv.EndedAt),
		CallStartDate: started.Format(time.DateOnly),
		CallStartTime: started.Format(time.TimeOnly),
		Destination:   inv.Destination,
	}
}
