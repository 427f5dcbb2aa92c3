package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/catalogd/catalogd/internal/catalog"
)

const listBody = `{"success":true,"data":[{"id":"MLA1","slug":"phone","title":"Phone","price":{"amount":100,"currency":"USD"},"thumbnail":"p.jpg","condition":"new","freeShipping":true}],"timestamp":"2024-01-01T00:00:00.000Z"}`

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32, *fakeClock) {
	t.Helper()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, Options{HTTPClient: ts.Client()})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c.now = clock.Now
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c, &calls, clock
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	if _, err := New("not a url", Options{}); err == nil {
		t.Fatalf("expected error for invalid url")
	}
	if _, err := New("http://localhost:3001", Options{StaleTime: time.Hour, CacheTime: time.Minute}); err == nil {
		t.Fatalf("expected error when cache time is shorter than stale time")
	}
	c, err := New("http://localhost:3001/", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.retries != DefaultRetries || c.staleTime != DefaultStaleTime {
		t.Fatalf("unexpected defaults: retries=%d stale=%s", c.retries, c.staleTime)
	}
}

func TestClient_ListProducts(t *testing.T) {
	t.Parallel()

	c, calls, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeBody(w, http.StatusOK, listBody)
	})

	items, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Slug != "phone" || !items[0].FreeShipping {
		t.Fatalf("unexpected items: %+v", items)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("unexpected calls: %d", got)
	}
}

func TestClient_CachesFreshResponses(t *testing.T) {
	t.Parallel()

	c, calls, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, listBody)
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.ListProducts(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one request while fresh, got %d", got)
	}

	clock.Advance(DefaultStaleTime + time.Second)
	if _, err := c.ListProducts(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected refetch once stale, got %d", got)
	}

	c.Invalidate()
	if _, err := c.ListProducts(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected refetch after invalidate, got %d", got)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	c, calls, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			writeBody(w, http.StatusInternalServerError, `{"success":false,"error":{"message":"Internal server error","code":"INTERNAL_SERVER_ERROR"}}`)
			return
		}
		writeBody(w, http.StatusOK, listBody)
	})

	if _, err := c.ListProducts(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected two retries, got %d calls", got)
	}
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	c, calls, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusServiceUnavailable, `{"success":false,"error":{"message":"down","code":"INTERNAL_SERVER_ERROR"}}`)
	})

	_, err := c.ListProducts(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != int32(DefaultRetries+1) {
		t.Fatalf("unexpected calls: got=%d want=%d", got, DefaultRetries+1)
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		body         string
		wantNotFound bool
	}{
		{
			name:         "not found",
			status:       http.StatusNotFound,
			body:         `{"success":false,"error":{"message":"Product with slug \"x\" not found","code":"NOT_FOUND"}}`,
			wantNotFound: true,
		},
		{
			name:   "validation",
			status: http.StatusBadRequest,
			body:   `{"success":false,"error":{"message":"Invalid product slug","code":"VALIDATION_ERROR","details":[{"field":"slug","rule":"required"}]}}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, calls, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeBody(w, tt.status, tt.body)
			})

			_, err := c.GetProduct(context.Background(), "x")
			if err == nil {
				t.Fatalf("expected error")
			}
			if errors.Is(err, ErrNotFound) != tt.wantNotFound {
				t.Fatalf("unexpected ErrNotFound match for %v", err)
			}
			if got := calls.Load(); got != 1 {
				t.Fatalf("expected no retries, got %d calls", got)
			}
		})
	}
}

func TestClient_ServesStaleOnFailure(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	c, _, clock := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			writeBody(w, http.StatusInternalServerError, `{"success":false,"error":{"message":"boom","code":"INTERNAL_SERVER_ERROR"}}`)
			return
		}
		writeBody(w, http.StatusOK, listBody)
	})
	ctx := context.Background()

	if _, err := c.ListProducts(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failing.Store(true)
	clock.Advance(DefaultStaleTime + time.Second)

	items, err := c.ListProducts(ctx)
	if err != nil {
		t.Fatalf("expected stale data, got error %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestClient_GetProductView(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/phone/view" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("color") != "red" || r.URL.Query().Get("size") != "m" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		writeBody(w, http.StatusOK, `{"success":true,"data":{"product":{"id":"MLA1","slug":"phone"},"selection":{"color":"red","size":"m"},"sku":{"id":"red-m","combination":{"color":"red","size":"m"},"availableQuantity":5,"priceModifier":20},"price":{"amount":120,"currency":"USD"},"availableQuantity":5,"outOfStock":false,"images":["p.jpg"],"variants":[],"payments":{},"reviews":{},"seller":{}},"timestamp":"2024-01-01T00:00:00.000Z"}`)
	})

	view, err := c.GetProductView(context.Background(), "phone", catalog.Selection{"color": "red", "size": "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.SKU == nil || view.SKU.ID != "red-m" || view.Price.Amount != 120 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestClient_StopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, listBody)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ListProducts(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClient_SharedFetchSurvivesCanceledCaller(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		select {
		case <-release:
			writeBody(w, http.StatusOK, listBody)
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
			writeBody(w, http.StatusServiceUnavailable, `{"success":false}`)
		}
	})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.ListProducts(first)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := c.ListProducts(context.Background())
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for the canceled caller, got %v", err)
	}

	close(release)
	if err := <-secondErr; err != nil {
		t.Fatalf("unexpected error for the waiting caller: %v", err)
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	c := &Client{retryDelay: time.Second}
	for attempt, want := range map[int]time.Duration{1: time.Second, 2: 2 * time.Second, 3: 4 * time.Second, 10: maxRetryDelay} {
		if got := c.backoff(attempt); got != want {
			t.Fatalf("backoff(%d): got=%s want=%s", attempt, got, want)
		}
	}
}
