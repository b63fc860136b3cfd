package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"billcalls/backend/services/calls-service/internal/models"
)

// ErrCacheMiss is returned when no listing is cached for the key.
var ErrCacheMiss = errors.New("invoice cache: miss")

// InvoiceCache stores monthly invoice listings per source number.
type InvoiceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInvoiceCache returns redis-backed cache.
func NewInvoiceCache(client *redis.Client, ttl time.Duration) *InvoiceCache {
	return &InvoiceCache{client: client, ttl: ttl}
}

// Key returns the cache key for a source and the month containing period.
func Key(source string, period time.Time) string {
	return fmt.Sprintf("calls:invoices:%s:%s", source, period.Format("2006-01"))
}

// Get returns the cached listing or ErrCacheMiss.
func (c *InvoiceCache) Get(ctx context.Context, source string, period time.Time) ([]models.Invoice, error) {
	result, err := c.client.Get(ctx, Key(source, period)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return decodeInvoices(result)
}

// Set caches a listing.
func (c *InvoiceCache) Set(ctx context.Context, source string, period time.Time, invoices []models.Invoice) error {
	data, err := encodeInvoices(invoices)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(source, period), data, c.ttl).Err()
}

// Invalidate drops the listing for a source and month.
func (c *InvoiceCache) Invalidate(ctx context.Context, source string, period time.Time) error {
	return c.client.Del(ctx, Key(source, period)).Err()
}

func encodeInvoices(invoices []models.Invoice) ([]byte, error) {
	data, err := json.Marshal(invoices)
	if err != nil {
		return nil, fmt.Errorf("invoice cache: encode: %w", err)
	}
	return data, nil
}

func decodeInvoices(data []byte) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := json.Unmarshal(data, &invoices); err != nil {
		return nil, fmt.Errorf("invoice cache: decode: %w", err)
	}
	return invoices, nil
}
