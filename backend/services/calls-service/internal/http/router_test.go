package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouterMethodGuard(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	router := NewRouter(Routes{CallLog: ok, CallInvoice: ok, Health: ok}, RouterOptions{})

	cases := []struct {
		method string
		path   string
		want   int
		allow  string
	}{
		{method: http.MethodPost, path: "/call-log", want: http.StatusOK},
		{method: http.MethodGet, path: "/call-log", want: http.StatusMethodNotAllowed, allow: http.MethodPost},
		{method: http.MethodGet, path: "/call-invoice/41998986565", want: http.StatusOK},
		{method: http.MethodGet, path: "/call-invoice", want: http.StatusOK},
		{method: http.MethodGet, path: "/call-invoice/", want: http.StatusOK},
		{method: http.MethodDelete, path: "/call-invoice/41998986565", want: http.StatusMethodNotAllowed, allow: http.MethodGet},
		{method: http.MethodGet, path: "/health", want: http.StatusOK},
		{method: http.MethodGet, path: "/unknown", want: http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, rec.Code)
		}
		if tc.allow != "" && rec.Header().Get("Allow") != tc.allow {
			t.Fatalf("%s %s: expected Allow %q, got %q", tc.method, tc.path, tc.allow, rec.Header().Get("Allow"))
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s %s: expected request id header", tc.method, tc.path)
		}
	}
}

func TestRouterProtectsInvoicesWhenSecretSet(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	router := NewRouter(Routes{CallLog: ok, CallInvoice: ok, Health: ok}, RouterOptions{JWTSecret: "secret"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/call-invoice/41998986565", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/call-log", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected call-log to stay open, got %d", rec.Code)
	}
}
