package multiplayer

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// SignalTTL is how long a signaling entry lives after it was written.
const SignalTTL = 5 * time.Minute

type signalEntry struct {
	val     json.RawMessage
	expires time.Time
}

// SignalStore is a small expiring key-value store peers use to trade
// connection details before they are paired.
type SignalStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]signalEntry
}

// NewSignalStore creates a store whose entries live for ttl.
func NewSignalStore(ttl time.Duration) *SignalStore {
	if ttl <= 0 {
		ttl = SignalTTL
	}
	return &SignalStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]signalEntry),
	}
}

// Get returns the value stored under key, if it has not expired.
func (s *SignalStore) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gc()
	e, ok := s.entries[key]
	return e.val, ok
}

// Put stores val under key, replacing any previous value.
func (s *SignalStore) Put(key string, val json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gc()
	s.entries[key] = signalEntry{val: val, expires: s.now().Add(s.ttl)}
}

// Delete removes key.
func (s *SignalStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gc()
	delete(s.entries, key)
}

// Len returns the number of live entries.
func (s *SignalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gc()
	return len(s.entries)
}

// gc must be called with the lock held.
func (s *SignalStore) gc() {
	now := s.now()
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
}

type signalRequest struct {
	Key string          `json:"key"`
	Val json.RawMessage `json:"val"`
}

// ServeHTTP implements the signaling API:
//
//	GET    ?key=K       -> {"val": ...}, 404 with {"val": null} when absent
//	POST   {key, val}   -> {"ok": true}
//	DELETE {key}        -> {"ok": true}
func (s *SignalStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)

	case http.MethodGet:
		key := r.URL.Query().Get("key")
		if key == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing key"})
			return
		}
		val, ok := s.Get(key)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"val": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"val": val})

	case http.MethodPost:
		var req signalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || isNullJSON(req.Val) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing key or val"})
			return
		}
		s.Put(req.Key, req.Val)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	case http.MethodDelete:
		var req signalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing key"})
			return
		}
		s.Delete(req.Key)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
	}
}

func isNullJSON(v json.RawMessage) bool {
	return len(v) == 0 || string(v) == "null"
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // client may be gone
}
