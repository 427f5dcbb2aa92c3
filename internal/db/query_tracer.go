package db

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5"

	"github.com/catalogd/catalogd/internal/logging"
)

const maxQueryDescription = 512

type queryTraceContextKey struct{}

type queryTrace struct {
	query   string
	started time.Time
	span    *sentry.Span
}

// queryTracer opens a sentry span per query when the caller is traced and logs
// queries slower than slow.
type queryTracer struct {
	logger *slog.Logger
	slow   time.Duration
	now    func() time.Time
}

func newQueryTracer(logger *slog.Logger, slow time.Duration) *queryTracer {
	return &queryTracer{logger: logging.OrDiscard(logger), slow: slow, now: time.Now}
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	trace := &queryTrace{query: normalizeQuery(data.SQL), started: t.now()}

	if sentry.SpanFromContext(ctx) != nil {
		trace.span = sentry.StartSpan(
			ctx,
			"db.query",
			sentry.WithDescription(trace.query),
			sentry.WithSpanOrigin(sentry.SpanOriginManual),
		)
		trace.span.SetData("db.system", "postgresql")
		if operation := queryOperation(trace.query); operation != "" {
			trace.span.SetData("db.operation", operation)
		}
		if table := queryTable(trace.query); table != "" {
			trace.span.SetData("db.sql.table", table)
		}
		ctx = trace.span.Context()
	}

	return context.WithValue(ctx, queryTraceContextKey{}, trace)
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	trace, _ := ctx.Value(queryTraceContextKey{}).(*queryTrace)
	if trace == nil {
		return
	}

	elapsed := t.now().Sub(trace.started)
	if t.slow > 0 && elapsed >= t.slow {
		logging.FromContext(ctx, t.logger).Warn("slow catalog query",
			"query", trace.query,
			"duration_ms", elapsed.Milliseconds(),
			"rows", data.CommandTag.RowsAffected(),
		)
	}

	if trace.span == nil {
		return
	}
	if data.Err != nil {
		trace.span.Status = sentry.SpanStatusInternalError
		trace.span.SetData("db.error", data.Err.Error())
	} else {
		trace.span.Status = sentry.SpanStatusOK
	}
	trace.span.SetData("db.rows_affected", data.CommandTag.RowsAffected())
	trace.span.Finish()
}

// normalizeQuery collapses whitespace and truncates the query for span descriptions.
func normalizeQuery(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if normalized == "" {
		return "sql.query"
	}
	if len(normalized) > maxQueryDescription {
		return normalized[:maxQueryDescription]
	}
	return normalized
}

func queryOperation(query string) string {
	operation, _, _ := strings.Cut(strings.TrimSpace(query), " ")
	return strings.ToUpper(operation)
}

// queryTable returns the first table named after FROM, INTO, UPDATE or TABLE.
// CREATE TABLE IF NOT EXISTS is skipped over.
func queryTable(query string) string {
	parts := strings.Fields(query)
	for i := 0; i < len(parts)-1; i++ {
		switch strings.ToUpper(parts[i]) {
		case "FROM", "INTO", "UPDATE", "TABLE":
			name := parts[i+1]
			if strings.EqualFold(name, "IF") && i+4 < len(parts) {
				name = parts[i+4]
			}
			return strings.Trim(name, "(;")
		}
	}
	return ""
}
