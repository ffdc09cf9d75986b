package query

import "fmt"

// traceFilter is the span selection shared by every trace insights query:
// spans of one trace within the window around the order timestamp.
func traceFilter(traceID string) string {
	return fmt.Sprintf(`| filter trace.id == toUid("%s")`, EscapeValue(traceID))
}

// ServiceBreakdown builds the per-service timing aggregate for a trace.
func ServiceBreakdown(traceID, timestamp string) string {
	from, to := TraceWindow(timestamp)
	return fmt.Sprintf(`fetch spans, from: %s, to: %s
%s
| summarize total_time = sum(duration), span_count = count(), by: {service.name}
| sort total_time desc`,
		from, to, traceFilter(traceID))
}

// TraceErrors builds the listing of exception-bearing spans in a trace.
func TraceErrors(traceID, timestamp string) string {
	from, to := TraceWindow(timestamp)
	return fmt.Sprintf(`fetch spans, from: %s, to: %s
%s
| filter isNotNull(exception.type)
| fields service.name, span.name, exception.type, exception.message, http.response.status_code`,
		from, to, traceFilter(traceID))
}

// DatabaseOperations builds the per-database-system timing aggregate for a trace.
func DatabaseOperations(traceID, timestamp string) string {
	from, to := TraceWindow(timestamp)
	return fmt.Sprintf(`fetch spans, from: %s, to: %s
%s
| filter isNotNull(db.statement)
| summarize db_time = sum(duration), db_calls = count(), by: {db.system}`,
		from, to, traceFilter(traceID))
}

// TraceTotals builds the whole-trace aggregate: longest span duration, span
// count and error count. The combined insight is undefined without this
// result, so callers treat it as load-bearing.
func TraceTotals(traceID, timestamp string) string {
	from, to := TraceWindow(timestamp)
	return fmt.Sprintf(`fetch spans, from: %s, to: %s
%s
| summarize max_duration = max(duration), total_spans = count(), error_count = countIf(isNotNull(exception.type))`,
		from, to, traceFilter(traceID))
}
