package query

import (
	"fmt"
	"strings"

	"ordersight/internal/models"
)

const orderFields = "timestamp, orderId, sessionId, shippingCostTotal, shippingTrackingId, items, trace_id, event.type"

// statusPredicate builds the event-type filter for a status selection.
// "all" matches both checkout outcomes; anything else matches the single
// synthesized event type for that status.
func statusPredicate(status string) string {
	if status == models.StatusAll || status == "" {
		return fmt.Sprintf("(event.type == %q or event.type == %q)",
			models.EventTypeCheckoutSuccess, models.EventTypeCheckoutFailure)
	}
	return fmt.Sprintf("event.type == %q", models.EventTypePrefix+EscapeValue(status))
}

// Orders builds the order-list query for the given filters: checkout events
// within the timeframe, optionally narrowed to one status and a substring
// match on orderId, newest first, capped at 100 rows.
func Orders(f models.OrderFilters) string {
	search := ""
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		search = fmt.Sprintf(` and matchesValue(orderId, "*%s*")`, EscapeValue(term))
	}

	return fmt.Sprintf(`fetch bizevents, from: %s, to: %s
| filter %s%s
| fields %s
| sort timestamp desc
| limit 100`,
		FormatTimeValue(f.Timeframe.From),
		FormatTimeValue(f.Timeframe.To),
		statusPredicate(f.Status),
		search,
		orderFields,
	)
}

// OrderDetail builds the single-order lookup query by order id.
func OrderDetail(orderID string) string {
	return fmt.Sprintf(`fetch bizevents
| filter (event.type == %q or event.type == %q) and orderId == "%s"
| fields %s
| limit 1`,
		models.EventTypeCheckoutSuccess,
		models.EventTypeCheckoutFailure,
		EscapeValue(orderID),
		orderFields,
	)
}

// OrderBySession builds the single-order lookup query by session id, used
// for orders that only carry a session-derived surrogate identifier.
func OrderBySession(sessionID string) string {
	return fmt.Sprintf(`fetch bizevents
| filter (event.type == %q or event.type == %q) and sessionId == "%s"
| fields %s
| sort timestamp desc
| limit 1`,
		models.EventTypeCheckoutSuccess,
		models.EventTypeCheckoutFailure,
		EscapeValue(sessionID),
		orderFields,
	)
}

// Statistics builds the checkout outcome aggregate for the timeframe. Events
// are first deduplicated per orderId, keeping the last event type, so retried
// checkouts count once and match the order table's deduplication.
func Statistics(f models.OrderFilters) string {
	return fmt.Sprintf(`fetch bizevents, from: %s, to: %s
| filter event.type == %q or event.type == %q
| summarize by:{orderId}, eventType=takeLast(event.type)
| summarize successCount = countIf(eventType == %q), failureCount = countIf(eventType == %q)`,
		FormatTimeValue(f.Timeframe.From),
		FormatTimeValue(f.Timeframe.To),
		models.EventTypeCheckoutSuccess,
		models.EventTypeCheckoutFailure,
		models.EventTypeCheckoutSuccess,
		models.EventTypeCheckoutFailure,
	)
}
