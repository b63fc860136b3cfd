package redisstore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"billcalls/backend/services/calls-service/internal/models"
)

func TestKeyUsesMonth(t *testing.T) {
	first := time.Date(2018, time.March, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2018, time.March, 31, 23, 59, 59, 0, time.UTC)

	if Key("41998986565", first) != "calls:invoices:41998986565:2018-03" {
		t.Fatalf("unexpected key %s", Key("41998986565", first))
	}
	if Key("41998986565", first) != Key("41998986565", last) {
		t.Fatalf("expected same key for the whole month")
	}
	if Key("41998986565", first) == Key("41998986565", first.AddDate(0, 1, 0)) {
		t.Fatalf("expected different keys for different months")
	}
}

func TestInvoicesSurviveEncoding(t *testing.T) {
	want := []models.Invoice{{
		ID:          4,
		CallID:      70,
		Source:      "99988526423",
		Destination: "9993468278",
		StartedAt:   time.Date(2016, time.February, 29, 12, 0, 0, 0, time.UTC),
		EndedAt:     time.Date(2016, time.February, 29, 14, 0, 0, 500, time.UTC),
		EndDate:     time.Date(2016, time.February, 29, 0, 0, 0, 0, time.UTC),
		Price:       decimal.RequireFromString("11.16"),
		CreatedAt:   time.Date(2016, time.February, 29, 14, 0, 1, 0, time.UTC),
	}}

	data, err := encodeInvoices(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeInvoices(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one invoice, got %d", len(got))
	}
	g, w := got[0], want[0]
	if g.ID != w.ID || g.CallID != w.CallID || g.Source != w.Source || g.Destination != w.Destination {
		t.Fatalf("identity fields changed: %+v", g)
	}
	if !g.Price.Equal(w.Price) || g.Price.StringFixed(2) != "11.16" {
		t.Fatalf("price changed: %s", g.Price)
	}
	if !g.StartedAt.Equal(w.StartedAt) || !g.EndedAt.Equal(w.EndedAt) || !g.EndDate.Equal(w.EndDate) || !g.CreatedAt.Equal(w.CreatedAt) {
		t.Fatalf("timestamps changed: %+v", g)
	}
}

func TestDecodeInvoicesRejectsGarbage(t *testing.T) {
	if _, err := decodeInvoices([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
