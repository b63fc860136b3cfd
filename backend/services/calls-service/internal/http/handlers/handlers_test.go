package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"billcalls/backend/services/calls-service/internal/http/middleware"
	"billcalls/backend/services/calls-service/internal/models"
	"billcalls/backend/services/calls-service/internal/service"
)

type fakeRecorder struct {
	input service.RecordInput
	log   *models.CallLog
	err   error
}

func (f *fakeRecorder) Record(_ context.Context, input service.RecordInput) (*models.CallLog, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return f.log, nil
}

type fakeLister struct {
	source, date string
	invoices     []service.InvoiceView
	err          error
}

func (f *fakeLister) ForPeriod(_ context.Context, source, date string) ([]service.InvoiceView, error) {
	f.source, f.date = source, date
	return f.invoices, f.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestCallLogHandlerRecordsEvent(t *testing.T) {
	recorder := &fakeRecorder{log: &models.CallLog{
		ID:          7,
		CallID:      70,
		Type:        models.EventStart,
		Timestamp:   time.Date(2016, 2, 29, 12, 0, 0, 0, time.UTC),
		Source:      "99988526423",
		Destination: "9993468278",
	}}
	handler := NewCallLogHandler(recorder, zap.NewNop())

	body := `{"type":"start","timestamp":"2016-02-29T12:00:00Z","call_id":"70","source":" 99988526423 ","destination":"9993468278"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/call-log", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if recorder.input.CallID != 70 || recorder.input.Source != "99988526423" {
		t.Fatalf("unexpected service input %+v", recorder.input)
	}
	if !recorder.input.Timestamp.Equal(time.Date(2016, 2, 29, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", recorder.input.Timestamp)
	}
	resp := decodeBody(t, rec)
	if resp["id"].(float64) != 7 || resp["type"] != "start" || resp["timestamp"] != "2016-02-29T12:00:00Z" {
		t.Fatalf("unexpected response %v", resp)
	}
}

func TestCallLogHandlerRejectsMalformedFields(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := NewCallLogHandler(recorder, zap.NewNop())

	cases := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{"type":`},
		{name: "call id not integer", body: `{"type":"start","call_id":"1.5","timestamp":"2016-02-29T12:00:00Z"}`},
		{name: "bad timestamp", body: `{"type":"start","call_id":1,"timestamp":"29/02/2016 12:00"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/call-log", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCallLogHandlerMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: &service.ValidationError{Problems: []string{"a", "b"}}, want: http.StatusBadRequest},
		{name: "end before start", err: service.ErrEndBeforeStart, want: http.StatusBadRequest},
		{name: "no start", err: service.ErrNoStartRecord, want: http.StatusNotFound},
		{name: "duplicate", err: fmt.Errorf("store: %w", service.ErrDuplicate), want: http.StatusConflict},
		{name: "unexpected", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCallLogHandler(&fakeRecorder{err: tc.err}, zap.NewNop())
			body := `{"type":"end","call_id":1,"timestamp":"2016-02-29T14:00:00Z"}`
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/call-log", strings.NewReader(body)))
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}

	handler := NewCallLogHandler(&fakeRecorder{err: &service.ValidationError{Problems: []string{"a", "b"}}}, zap.NewNop())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/call-log", strings.NewReader(`{}`)))
	problems, ok := decodeBody(t, rec)["problems"].([]interface{})
	if !ok || len(problems) != 2 {
		t.Fatalf("expected both problems listed, got %s", rec.Body.String())
	}
}

func TestCallInvoiceHandler(t *testing.T) {
	lister := &fakeLister{invoices: []service.InvoiceView{{
		CallID:        70,
		Price:         "11.16",
		Duration:      "2h0m0s",
		CallStartDate: "2016-02-29",
		CallStartTime: "12:00:00",
		Destination:   "9993468278",
	}}}
	mux := http.NewServeMux()
	mux.Handle("/call-invoice/{source}", NewCallInvoiceHandler(lister, zap.NewNop()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/call-invoice/99988526423?date=022016", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if lister.source != "99988526423" || lister.date != "022016" {
		t.Fatalf("unexpected lister args %q %q", lister.source, lister.date)
	}
	invoices := decodeBody(t, rec)["invoices"].([]interface{})
	first := invoices[0].(map[string]interface{})
	if first["price"] != "11.16" || first["call_start_time"] != "12:00:00" {
		t.Fatalf("unexpected invoice %v", first)
	}
}

func TestCallInvoiceHandlerMapsErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{err: service.ErrSourceRequired, want: http.StatusBadRequest},
		{err: service.ErrInvalidPeriod, want: http.StatusBadRequest},
		{err: service.ErrPeriodNotClosed, want: http.StatusBadRequest},
		{err: service.ErrNoInvoices, want: http.StatusNotFound},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		handler := NewCallInvoiceHandler(&fakeLister{err: tc.err}, zap.NewNop())
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/call-invoice", nil))
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || decodeBody(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestServerErrorsCarryRequestContext(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "billing-portal"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	invoices := middleware.BearerAuth("secret")(NewCallInvoiceHandler(&fakeLister{err: errors.New("boom")}, logger))
	handler := middleware.RequestLogger(zap.NewNop())(invoices)

	req := httptest.NewRequest(http.MethodGet, "/call-invoice", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-500")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	entries := logs.FilterMessage("failed to load invoices").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-500" || fields["subject"] != "billing-portal" {
		t.Fatalf("unexpected log fields %v", fields)
	}

	core, logs = observer.New(zap.ErrorLevel)
	calls := middleware.RequestLogger(zap.NewNop())(NewCallLogHandler(&fakeRecorder{err: errors.New("boom")}, zap.New(core)))
	req = httptest.NewRequest(http.MethodPost, "/call-log", strings.NewReader(`{"type":"end","call_id":1,"timestamp":"2016-02-29T14:00:00Z"}`))
	req.Header.Set(middleware.RequestIDHeader, "req-501")
	calls.ServeHTTP(httptest.NewRecorder(), req)

	entries = logs.FilterMessage("failed to record call event").All()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != "req-501" {
		t.Fatalf("expected request id on call log error, got %v", entries)
	}
}
