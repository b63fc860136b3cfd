package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"billcalls/backend/services/calls-service/internal/models"
	redisstore "billcalls/backend/services/calls-service/internal/redis"
	"billcalls/backend/services/calls-service/internal/repository"
)

type fakeCallStore struct {
	mu       sync.Mutex
	calls    map[int64]models.Call
	logs     map[string]models.CallLog
	invoices []models.Invoice
	nextID   int64
}

func newFakeCallStore() *fakeCallStore {
	return &fakeCallStore{
		calls: make(map[int64]models.Call),
		logs:  make(map[string]models.CallLog),
	}
}

func logKey(callID int64, eventType string) string {
	return fmt.Sprintf("%s:%d", eventType, callID)
}

func (f *fakeCallStore) CreateWithStart(_ context.Context, call *models.Call, log *models.CallLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.calls[call.ID]; ok {
		return repository.ErrDuplicate
	}
	f.nextID++
	log.ID = f.nextID
	f.calls[call.ID] = *call
	f.logs[logKey(log.CallID, log.Type)] = *log
	return nil
}

func (f *fakeCallStore) GetLog(_ context.Context, callID int64, eventType string) (*models.CallLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log, ok := f.logs[logKey(callID, eventType)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	call := f.calls[callID]
	log.Source = call.Source
	log.Destination = call.Destination
	return &log, nil
}

func (f *fakeCallStore) CompleteWithInvoice(_ context.Context, log *models.CallLog, invoice *models.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.logs[logKey(log.CallID, log.Type)]; ok {
		return repository.ErrDuplicate
	}
	f.nextID++
	log.ID = f.nextID
	invoice.ID = int64(len(f.invoices) + 1)
	f.logs[logKey(log.CallID, log.Type)] = *log
	f.invoices = append(f.invoices, *invoice)
	return nil
}

func (f *fakeCallStore) ListBySource(_ context.Context, source string, from, to time.Time) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invoice
	for _, inv := range f.invoices {
		if inv.Source == source && !inv.EndDate.Before(from) && inv.EndDate.Before(to) {
			out = append(out, inv)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]models.Invoice
	invalidated []string
	gets        int
	sets        int

	getErr        error
	setErr        error
	invalidateErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]models.Invoice)}
}

func (c *fakeCache) Get(_ context.Context, source string, period time.Time) ([]models.Invoice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	invoices, ok := c.entries[redisstore.Key(source, period)]
	if !ok {
		return nil, redisstore.ErrCacheMiss
	}
	return invoices, nil
}

func (c *fakeCache) Set(_ context.Context, source string, period time.Time, invoices []models.Invoice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[redisstore.Key(source, period)] = invoices
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, source string, period time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.invalidateErr != nil {
		return c.invalidateErr
	}
	key := redisstore.Key(source, period)
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}
