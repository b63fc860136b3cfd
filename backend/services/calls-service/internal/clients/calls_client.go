package clients

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"billcalls/backend/services/calls-service/internal/models"
	"billcalls/backend/services/calls-service/internal/service"
)

// CallEvent is the POST /call-log payload.
type CallEvent struct {
	Type        string    `json:"type"`
	CallID      int64     `json:"call_id"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source,omitempty"`
	Destination string    `json:"destination,omitempty"`
}

// CallsClient talks to the calls service HTTP API.
type CallsClient struct {
	base *BaseClient
}

// NewCallsClient returns client instance. A non-empty token is sent as bearer.
func NewCallsClient(baseURL, token string, httpClient HTTPDoer) *CallsClient {
	base := NewBaseClient(baseURL, httpClient)
	if token != "" {
		base.SetHeader("Authorization", "Bearer "+token)
	}
	return &CallsClient{base: base}
}

// RecordEvent posts a start or end event.
func (c *CallsClient) RecordEvent(ctx context.Context, event CallEvent) (*models.CallLog, error) {
	var log models.CallLog
	if err := c.base.DoJSON(ctx, http.MethodPost, "/call-log", event, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// Invoices fetches the invoices of source for the MMYYYY period; an empty
// date asks for the previous month.
func (c *CallsClient) Invoices(ctx context.Context, source, date string) ([]service.InvoiceView, error) {
	path := "/call-invoice/" + url.PathEscape(source)
	if date != "" {
		path += "?" + url.Values{"date": {date}}.Encode()
	}
	var resp struct {
		Invoices []service.InvoiceView `json:"invoices"`
	}
	if err := c.base.DoJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Invoices, nil
}
