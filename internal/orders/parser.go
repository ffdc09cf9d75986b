// Package orders converts query result rows into order view-models and
// derives checkout statistics.
package orders

import (
	"encoding/json"
	"log/slog"

	"ordersight/internal/clients/dql"
	"ordersight/internal/models"
)

// FromRow converts one bizevent result row into an Order. Numeric fields
// coerce to 0 when missing. Rows without an orderId but with a sessionId
// (seen on some failure events) get a session-derived surrogate identifier.
func FromRow(row dql.Row) models.Order {
	orderID := row.Str("orderId")
	sessionID := row.Str("sessionId")
	if orderID == "" && sessionID != "" {
		orderID = models.SessionIDPrefix + sessionID
	}

	return models.Order{
		Timestamp:          row.Str("timestamp"),
		OrderID:            orderID,
		SessionID:          sessionID,
		ShippingCostTotal:  row.Num("shippingCostTotal"),
		ShippingTrackingID: row.Str("shippingTrackingId"),
		ItemsRaw:           row.Str("items"),
		TraceID:            row.Str("trace_id"),
		EventType:          row.Str("event.type"),
	}
}

// FromRows converts a result set into orders, preserving row order.
func FromRows(rows []dql.Row) []models.Order {
	out := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromRow(row))
	}
	return out
}

// itemEntry mirrors the wire layout of one entry in the order's embedded
// items payload. Monetary values use the units+nanos fixed-point encoding.
type itemEntry struct {
	Cost struct {
		CurrencyCode string `json:"currencyCode"`
		Units        int64  `json:"units"`
		Nanos        int64  `json:"nanos"`
	} `json:"cost"`
	Item struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Product   struct {
			ID          string   `json:"id"`
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Picture     string   `json:"picture"`
			PriceUsd    struct {
				CurrencyCode string `json:"currencyCode"`
				Units        int64  `json:"units"`
				Nanos        int64  `json:"nanos"`
			} `json:"priceUsd"`
			Categories []string `json:"categories"`
		} `json:"product"`
	} `json:"item"`
}

// moneyAmount reconstructs a float amount from the units+nanos encoding.
func moneyAmount(units, nanos int64) float64 {
	return float64(units) + float64(nanos)/1_000_000_000
}

// ParseItems decodes the JSON-encoded item list embedded in an order row.
// Malformed JSON or a non-array top level degrades to an empty list: an
// order with unparsable items is still a valid order to display.
func ParseItems(itemsJSON string) []models.OrderItem {
	if itemsJSON == "" {
		return []models.OrderItem{}
	}

	var entries []itemEntry
	if err := json.Unmarshal([]byte(itemsJSON), &entries); err != nil {
		slog.Warn("Failed to parse order items", "error", err)
		return []models.OrderItem{}
	}

	items := make([]models.OrderItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, models.OrderItem{
			ProductID:   entry.Item.ProductID,
			Name:        entry.Item.Product.Name,
			Description: entry.Item.Product.Description,
			Picture:     entry.Item.Product.Picture,
			Quantity:    entry.Item.Quantity,
			UnitPrice:   moneyAmount(entry.Item.Product.PriceUsd.Units, entry.Item.Product.PriceUsd.Nanos),
			LineTotal:   moneyAmount(entry.Cost.Units, entry.Cost.Nanos),
			Currency:    entry.Cost.CurrencyCode,
			Categories:  entry.Item.Product.Categories,
		})
	}
	return items
}
