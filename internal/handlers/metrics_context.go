package handlers

import (
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/gorilla/mux"

	"github.com/catalogd/catalogd/internal/observability"
)

// MetricsContext stores a meter tagged with the request and catalog attributes, so
// catalog counters recorded downstream can be broken down by route and product.
func (h *Handlers) MetricsContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		attrs := []attribute.Builder{
			attribute.String("http.method", r.Method),
			attribute.String("network.client.ip", clientIP(r)),
		}
		if requestID := requestIDFromContext(ctx); requestID != "" {
			attrs = append(attrs, attribute.String("http.request_id", requestID))
		}
		if route := routeLabel(r); route != "" {
			attrs = append(attrs, attribute.String("http.route", route))
		}
		if slug := strings.TrimSpace(mux.Vars(r)["slug"]); slug != "" {
			attrs = append(attrs, attribute.String("catalog.slug", slug))
		}
		if query := r.URL.Query(); len(query) > 0 {
			attrs = append(attrs, attribute.Int("catalog.selection_size", len(query)))
		}

		meter := sentry.NewMeter(ctx).WithCtx(ctx)
		meter.SetAttributes(attrs...)

		next.ServeHTTP(w, r.WithContext(observability.WithMeter(ctx, meter)))
	})
}
