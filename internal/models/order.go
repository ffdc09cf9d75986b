// Package models defines the shared core data structures used throughout the ordersight service.
package models

import "strings"

// Checkout event types emitted by the shop frontend into the analytics backend.
const (
	EventTypePrefix          = "astroshop.web.checkout_"
	EventTypeCheckoutSuccess = EventTypePrefix + "success"
	EventTypeCheckoutFailure = EventTypePrefix + "failure"
)

// SessionIDPrefix tags order identifiers synthesized from a session when the
// event carried no orderId (seen on some failure-path checkouts). Consumers
// that detect this prefix look the order up by session instead of by id.
const SessionIDPrefix = "session:"

// Order represents one checkout event row returned by the query engine.
type Order struct {
	Timestamp          string  `json:"timestamp"`
	OrderID            string  `json:"orderId"`
	SessionID          string  `json:"sessionId"`
	ShippingCostTotal  float64 `json:"shippingCostTotal"`
	ShippingTrackingID string  `json:"shippingTrackingId,omitempty"`
	ItemsRaw           string  `json:"items,omitempty"`
	TraceID            string  `json:"traceId"`
	EventType          string  `json:"eventType"`
}

// IsSuccess returns true if the order completed checkout successfully.
func (o *Order) IsSuccess() bool {
	return o.EventType == EventTypeCheckoutSuccess
}

// HasSurrogateID returns true if the order identifier was synthesized from
// the session id rather than carried on the event itself.
func (o *Order) HasSurrogateID() bool {
	return strings.HasPrefix(o.OrderID, SessionIDPrefix)
}

// SessionFromSurrogate returns the session id embedded in a surrogate order
// identifier, and whether the id was a surrogate at all.
func SessionFromSurrogate(orderID string) (string, bool) {
	if !strings.HasPrefix(orderID, SessionIDPrefix) {
		return "", false
	}
	return strings.TrimPrefix(orderID, SessionIDPrefix), true
}

// OrderItem is one purchased product line parsed from the order's embedded
// items payload. UnitPrice and LineTotal are reconstructed from the
// units+nanos fixed-point encoding used on the wire.
type OrderItem struct {
	ProductID   string   `json:"productId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Picture     string   `json:"picture"`
	Quantity    int      `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	LineTotal   float64  `json:"lineTotal"`
	Currency    string   `json:"currency"`
	Categories  []string `json:"categories"`
}

// OrderDetail is a single order joined with its parsed item lines.
type OrderDetail struct {
	Order          Order       `json:"order"`
	Items          []OrderItem `json:"items"`
	TraceViewerURL string      `json:"traceViewerUrl,omitempty"`
}

// Order status filter values.
const (
	StatusAll     = "all"
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Timeframe holds the two endpoints of a query time range. Each endpoint is
// either an absolute ISO-8601 instant or a relative expression such as
// "now-2h".
type Timeframe struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// OrderFilters is the caller-owned filter state driving order queries.
type OrderFilters struct {
	Timeframe  Timeframe `json:"timeframe"`
	Status     string    `json:"status"`
	SearchTerm string    `json:"searchTerm"`
}

// OrderStatistics aggregates checkout outcomes over a timeframe.
type OrderStatistics struct {
	TotalOrders      int     `json:"totalOrders"`
	SuccessfulOrders int     `json:"successfulOrders"`
	FailedOrders     int     `json:"failedOrders"`
	SuccessRate      float64 `json:"successRate"`
}
