package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
)

func TestMeterFromContext(t *testing.T) {
	t.Parallel()

	ctx := WithMeter(context.Background(), sentry.NewMeter(context.Background()))
	if _, ok := ctx.Value(meterContextKey{}).(sentry.Meter); !ok {
		t.Fatalf("expected meter stored in context")
	}
	if meter := MeterFromContext(ctx); meter == nil {
		t.Fatalf("expected meter from context")
	}
}

func TestCatalogMetricsWithoutClient(t *testing.T) {
	t.Parallel()

	m := Catalog(context.Background())
	m.ProductsListed(3)
	m.ViewBuilt(true, 2)
	m.SourceFailed("list", true)
	m.SourceFailed("get", false)
	m.SnapshotLookup("hit")
	m.InternalError()
	m.CORSBlocked("https://evil.example")
	m.ClientRetry(1)
	m.ClientStaleServed()
}

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ts.Close)

	client := NewHTTPClient(2*time.Second, "catalog.internal")
	if client.Timeout != 2*time.Second {
		t.Fatalf("unexpected timeout: got=%s want=%s", client.Timeout, 2*time.Second)
	}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected status: got=%d want=%d", resp.StatusCode, http.StatusNoContent)
	}

	if NewHTTPClient(0).Timeout != 0 {
		t.Fatalf("expected no timeout when zero is given")
	}
}
