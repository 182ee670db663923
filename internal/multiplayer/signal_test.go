package multiplayer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func signalRequestTo(t *testing.T, s *SignalStore, method, target, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var out map[string]json.RawMessage
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("response %q is not JSON: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

func TestSignalRoundTrip(t *testing.T) {
	s := NewSignalStore(SignalTTL)

	rec, body := signalRequestTo(t, s, http.MethodPost, "/api/signal", `{"key":"ABCD-offer","val":{"sdp":"x"}}`)
	if rec.Code != http.StatusOK || string(body["ok"]) != "true" {
		t.Fatalf("POST = %d %s", rec.Code, rec.Body.String())
	}

	rec, body = signalRequestTo(t, s, http.MethodGet, "/api/signal?key=ABCD-offer", "")
	if rec.Code != http.StatusOK || string(body["val"]) != `{"sdp":"x"}` {
		t.Errorf("GET = %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = signalRequestTo(t, s, http.MethodDelete, "/api/signal", `{"key":"ABCD-offer"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("DELETE = %d", rec.Code)
	}

	rec, body = signalRequestTo(t, s, http.MethodGet, "/api/signal?key=ABCD-offer", "")
	if rec.Code != http.StatusNotFound || string(body["val"]) != "null" {
		t.Errorf("GET after delete = %d %s", rec.Code, rec.Body.String())
	}
}

func TestSignalErrors(t *testing.T) {
	s := NewSignalStore(SignalTTL)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"get without key", http.MethodGet, "/api/signal", "", http.StatusBadRequest},
		{"post without val", http.MethodPost, "/api/signal", `{"key":"k"}`, http.StatusBadRequest},
		{"post null val", http.MethodPost, "/api/signal", `{"key":"k","val":null}`, http.StatusBadRequest},
		{"post garbage", http.MethodPost, "/api/signal", `nope`, http.StatusBadRequest},
		{"delete without key", http.MethodDelete, "/api/signal", `{}`, http.StatusBadRequest},
		{"put", http.MethodPut, "/api/signal", `{}`, http.StatusMethodNotAllowed},
		{"preflight", http.MethodOptions, "/api/signal", "", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := signalRequestTo(t, s, tc.method, tc.target, tc.body)
			if rec.Code != tc.status {
				t.Errorf("status = %d, expected %d", rec.Code, tc.status)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q, expected *", got)
			}
		})
	}
}

func TestSignalEntriesExpire(t *testing.T) {
	s := NewSignalStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Put("a", json.RawMessage(`1`))
	now = now.Add(30 * time.Second)
	s.Put("b", json.RawMessage(`2`))

	now = now.Add(45 * time.Second)
	if _, ok := s.Get("a"); ok {
		t.Error("entry older than the TTL should be gone")
	}
	if v, ok := s.Get("b"); !ok || string(v) != "2" {
		t.Errorf("Get(b) = %s, %v; expected 2", v, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", s.Len())
	}
}
