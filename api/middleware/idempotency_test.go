package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/jasperlim/tracelink-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
	gets int
	sets int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.gets++
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.sets++
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{"receive master", http.MethodPost, receiveMasterPath, receiveIdempotencyTTL, true},
		{"receiving status", http.MethodGet, "/api/warehouse/receiving-status", 0, false},
		{"wrong method", http.MethodGet, receiveMasterPath, 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestRoutePatternFallsBackPastGroupWildcard(t *testing.T) {
	req := requestWithPattern(http.MethodPost, receiveMasterPath, "/api/warehouse/*", nil)
	if got := routePattern(req); got != receiveMasterPath {
		t.Fatalf("expected request path past partial pattern, got %q", got)
	}
}

// Mounts the middleware on a chi group the way the router does, where chi has
// not yet resolved the leaf pattern when the middleware runs.
func TestIdempotencyProtectsGroupMountedRoute(t *testing.T) {
	store := newFakeStore()
	var calls int

	r := chi.NewRouter()
	r.Route("/api/warehouse", func(r chi.Router) {
		r.Use(Idempotency(store, nil))
		r.Post("/receive-master", func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"success":true}`))
		})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, receiveMasterPath, strings.NewReader(`{"master_code":"CASE-1"}`))
		req.Header.Set("Idempotency-Key", "scan-42")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, resp.Code)
		}
		if strings.TrimSpace(resp.Body.String()) != `{"success":true}` {
			t.Fatalf("request %d: unexpected body %s", i, resp.Body.String())
		}
	}

	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
	if store.gets != 2 {
		t.Fatalf("store consulted %d times, expected 2", store.gets)
	}
	if store.sets != 1 {
		t.Fatalf("store written %d times, expected 1", store.sets)
	}
}

func TestIdempotencyMiddlewareMissingKeyFallsThrough(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := requestWithPattern(http.MethodPost, receiveMasterPath, receiveMasterPath, strings.NewReader(`{"master_code":"X"}`))
		mw(handler).ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Fatalf("handler executed %d times, expected 2 without a key", calls)
	}
	if store.gets != 0 || store.sets != 0 {
		t.Fatalf("store must stay untouched without a key, got gets=%d sets=%d", store.gets, store.sets)
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"outcome":"already_received"}`))
	})

	req := requestWithPattern(http.MethodPost, receiveMasterPath, receiveMasterPath, strings.NewReader(`{"master_code":"X"}`))
	req.Header.Set("Idempotency-Key", "abc")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected first response 409 got %d", resp.Code)
	}

	replay := requestWithPattern(http.MethodPost, receiveMasterPath, receiveMasterPath, strings.NewReader(`{"master_code":"X"}`))
	replay.Header.Set("Idempotency-Key", "abc")
	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, replay)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected replay status 409 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"outcome":"already_received"}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := requestWithPattern(http.MethodPost, receiveMasterPath, receiveMasterPath, strings.NewReader(`{"master_code":"X"}`))
	req.Header.Set("Idempotency-Key", "xyz")
	mw(handler).ServeHTTP(httptest.NewRecorder(), req)

	replay := requestWithPattern(http.MethodPost, receiveMasterPath, receiveMasterPath, strings.NewReader(`{"master_code":"Y"}`))
	replay.Header.Set("Idempotency-Key", "xyz")
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, replay)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, payload.Error.Code)
	}
}
