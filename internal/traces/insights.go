// Package traces assembles the per-trace performance view from the four
// independent span aggregate query results.
package traces

import (
	"ordersight/internal/clients/dql"
	"ordersight/internal/models"
)

// Badge thresholds over the whole-trace duration, in nanoseconds.
const (
	VerySlowThresholdNanos = 2_000_000_000
	SlowThresholdNanos     = 500_000_000
)

// PerformanceBadge classifies a trace from its error count and total
// duration. Any error dominates; otherwise the duration thresholds decide.
func PerformanceBadge(errorCount int, totalDuration int64) string {
	switch {
	case errorCount > 0:
		return models.BadgeError
	case totalDuration > VerySlowThresholdNanos:
		return models.BadgeVerySlow
	case totalDuration > SlowThresholdNanos:
		return models.BadgeSlow
	default:
		return models.BadgeFast
	}
}

// BuildInsights combines the four aggregate result sets for one trace. The
// whole-trace totals are load-bearing: without them the insight is nil no
// matter what the other result sets contain. Missing service, database or
// error result sets degrade to empty slices.
func BuildInsights(totals, services, dbOps, errorRows []dql.Row) *models.TraceInsights {
	if len(totals) == 0 {
		return nil
	}

	totalRow := totals[0]
	totalDuration := totalRow.Int("max_duration")
	spanCount := int(totalRow.Int("total_spans"))
	errorCount := int(totalRow.Int("error_count"))

	breakdown := make([]models.ServiceTiming, 0, len(services))
	for _, row := range services {
		totalTime := row.Int("total_time")
		pct := 0.0
		if totalDuration > 0 {
			pct = float64(totalTime) / float64(totalDuration) * 100
		}
		breakdown = append(breakdown, models.ServiceTiming{
			ServiceName: row.StrOr("service.name", "unknown"),
			TotalTime:   totalTime,
			SpanCount:   int(row.Int("span_count")),
			Percentage:  pct,
		})
	}

	// The service query sorts by total_time desc, so the head is the
	// slowest service.
	slowest := ""
	if len(breakdown) > 0 {
		slowest = breakdown[0].ServiceName
	}

	dbStats := models.DatabaseStats{
		Operations: make([]models.DatabaseOperation, 0, len(dbOps)),
	}
	for _, row := range dbOps {
		op := models.DatabaseOperation{
			System:   row.StrOr("db.system", "unknown"),
			Calls:    int(row.Int("db_calls")),
			Duration: row.Int("db_time"),
		}
		dbStats.Operations = append(dbStats.Operations, op)
		dbStats.TotalCalls += op.Calls
		dbStats.TotalDuration += op.Duration
	}

	traceErrors := make([]models.TraceError, 0, len(errorRows))
	for _, row := range errorRows {
		traceErrors = append(traceErrors, models.TraceError{
			ServiceName:      row.StrOr("service.name", "unknown"),
			SpanName:         row.StrOr("span.name", "unknown"),
			ExceptionType:    row.StrOr("exception.type", "unknown"),
			ExceptionMessage: row.StrOr("exception.message", "No message"),
			StatusCode:       int(row.Int("http.response.status_code")),
		})
	}

	return &models.TraceInsights{
		TotalDuration:      totalDuration,
		SpanCount:          spanCount,
		ServiceBreakdown:   breakdown,
		DatabaseOperations: dbStats,
		Errors:             traceErrors,
		SlowestService:     slowest,
		HasRetries:         false,
		PerformanceBadge:   PerformanceBadge(errorCount, totalDuration),
	}
}
