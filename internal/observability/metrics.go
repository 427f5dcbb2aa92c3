package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
)

const (
	MetricHTTPRequests   = "http.server.requests"
	MetricHTTPDuration   = "http.server.duration"
	MetricHTTPErrors     = "http.server.errors"
	MetricProductsListed = "catalog.products.listed"
	MetricViewBuilt      = "catalog.view.built"
	MetricSourceMissing  = "catalog.source.missing"
	MetricSourceFailed   = "catalog.source.failed"
	MetricSnapshotLookup = "catalog.snapshot.lookups"
	MetricInternalErrors = "http.server.internal_errors"
	MetricCORSBlocked    = "security.cors.blocked"
	MetricClientRetries  = "catalog.client.retries"
	MetricClientStale    = "catalog.client.stale_served"
)

type meterContextKey struct{}

// WithMeter returns a context carrying the provided meter.
func WithMeter(ctx context.Context, meter sentry.Meter) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if meter == nil {
		meter = sentry.NewMeter(ctx)
	}
	return context.WithValue(ctx, meterContextKey{}, meter.WithCtx(ctx))
}

// MeterFromContext returns the request-scoped meter, or a fresh one bound to ctx.
func MeterFromContext(ctx context.Context) sentry.Meter {
	if ctx == nil {
		ctx = context.Background()
	}
	if meter, ok := ctx.Value(meterContextKey{}).(sentry.Meter); ok && meter != nil {
		return meter.WithCtx(ctx)
	}
	return sentry.NewMeter(ctx).WithCtx(ctx)
}

// RecordRequest counts a served request and its latency. Server errors are counted again
// under MetricHTTPErrors.
func RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unknown"
	}
	attrs := []attribute.Builder{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	}

	meter := sentry.NewMeter(ctx).WithCtx(ctx)
	meter.Count(MetricHTTPRequests, 1, sentry.WithAttributes(attrs...))
	meter.Distribution(
		MetricHTTPDuration,
		float64(elapsed.Milliseconds()),
		sentry.WithUnit(sentry.UnitMillisecond),
		sentry.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.String("http.status_class", fmt.Sprintf("%dxx", status/100)),
		),
	)
	if status >= http.StatusInternalServerError {
		meter.Count(MetricHTTPErrors, 1, sentry.WithAttributes(attrs...))
	}
}

// CatalogMetrics records catalog events on the meter carried by ctx.
type CatalogMetrics struct {
	meter sentry.Meter
}

func Catalog(ctx context.Context) CatalogMetrics {
	return CatalogMetrics{meter: MeterFromContext(ctx)}
}

func (m CatalogMetrics) ProductsListed(count int) {
	m.meter.Count(MetricProductsListed, int64(count))
}

func (m CatalogMetrics) ViewBuilt(skuResolved bool, selectionSize int) {
	m.meter.Count(MetricViewBuilt, 1, sentry.WithAttributes(
		attribute.String("sku_resolved", strconv.FormatBool(skuResolved)),
		attribute.Int("selection_size", selectionSize),
	))
}

// SourceFailed counts catalog reads that failed. A missing data file is counted apart
// from read and parse failures.
func (m CatalogMetrics) SourceFailed(operation string, missing bool) {
	name := MetricSourceFailed
	if missing {
		name = MetricSourceMissing
	}
	m.meter.Count(name, 1, sentry.WithAttributes(attribute.String("operation", operation)))
}

// SnapshotLookup counts cached catalog reads by result: hit, miss or error.
func (m CatalogMetrics) SnapshotLookup(result string) {
	m.meter.Count(MetricSnapshotLookup, 1, sentry.WithAttributes(attribute.String("result", result)))
}

func (m CatalogMetrics) InternalError() {
	m.meter.Count(MetricInternalErrors, 1)
}

func (m CatalogMetrics) CORSBlocked(origin string) {
	m.meter.Count(MetricCORSBlocked, 1, sentry.WithAttributes(attribute.String("origin", origin)))
}

func (m CatalogMetrics) ClientRetry(attempt int) {
	m.meter.Count(MetricClientRetries, 1, sentry.WithAttributes(attribute.Int("attempt", attempt)))
}

func (m CatalogMetrics) ClientStaleServed() {
	m.meter.Count(MetricClientStale, 1)
}
