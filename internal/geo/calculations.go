package geo

import (
	"fmt"
	"sort"

	"ordersight/internal/clients/dql"
	"ordersight/internal/models"
)

// Default bubble rendering bounds for the map view.
const (
	MinBubbleSize = 10.0
	MaxBubbleSize = 50.0

	MinBubbleOpacity = 0.4
	MaxBubbleOpacity = 1.0
)

// FormatLocations converts location aggregate rows into LocationData,
// joining each row with its resolved coordinates. Numeric fields coerce to 0
// when missing.
func (r *Resolver) FormatLocations(rows []dql.Row) []models.LocationData {
	out := make([]models.LocationData, 0, len(rows))
	for _, row := range rows {
		country := row.Str("shippingAddress.country")
		city := row.Str("shippingAddress.city")
		out = append(out, models.LocationData{
			Country:       country,
			City:          city,
			OrderCount:    int(row.Int("order_count")),
			TotalRevenue:  row.Num("total_revenue"),
			AvgOrderValue: row.Num("avg_order_value"),
			Coordinates:   r.Coordinates(country, city),
		})
	}
	return out
}

// LocationOrdersFromRows converts drill-down rows into location orders.
func LocationOrdersFromRows(rows []dql.Row) []models.LocationOrder {
	out := make([]models.LocationOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.LocationOrder{
			OrderID:           row.Str("orderId"),
			Timestamp:         row.Str("timestamp"),
			ShippingCostTotal: row.Num("shippingCostTotal"),
			SessionID:         row.Str("sessionId"),
		})
	}
	return out
}

// BubbleSize maps an order count onto a bubble radius by linear
// interpolation over [minCount, maxCount]. A degenerate range (all locations
// share one count) renders at the minimum size.
func BubbleSize(orderCount, minCount, maxCount int, minSize, maxSize float64) float64 {
	if maxCount == minCount {
		return minSize
	}
	normalized := float64(orderCount-minCount) / float64(maxCount-minCount)
	return minSize + normalized*(maxSize-minSize)
}

// BubbleOpacity maps revenue onto a fill opacity by linear interpolation
// over [minRevenue, maxRevenue]. A degenerate range renders fully opaque,
// unlike BubbleSize's minimum; keep the asymmetry.
func BubbleOpacity(revenue, minRevenue, maxRevenue, minOpacity, maxOpacity float64) float64 {
	if maxRevenue == minRevenue {
		return maxOpacity
	}
	normalized := (revenue - minRevenue) / (maxRevenue - minRevenue)
	return minOpacity + normalized*(maxOpacity-minOpacity)
}

// TopLocations returns up to limit locations ranked descending by the given
// metric. The sort is stable: locations with equal keys keep their input
// order.
func TopLocations(locations []models.LocationData, metric string, limit int) []models.LocationData {
	sorted := make([]models.LocationData, len(locations))
	copy(sorted, locations)

	sort.SliceStable(sorted, func(i, j int) bool {
		if metric == models.MetricRevenue {
			return sorted[i].TotalRevenue > sorted[j].TotalRevenue
		}
		return sorted[i].OrderCount > sorted[j].OrderCount
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Statistics summarizes a set of location aggregates.
func Statistics(locations []models.LocationData) models.GeoStatistics {
	var stats models.GeoStatistics
	countries := make(map[string]struct{})
	cities := make(map[string]struct{})

	for _, loc := range locations {
		stats.TotalOrders += loc.OrderCount
		stats.TotalRevenue += loc.TotalRevenue
		countries[loc.Country] = struct{}{}
		if loc.City != "" {
			cities[loc.City] = struct{}{}
		}
	}

	stats.UniqueCountries = len(countries)
	stats.UniqueCities = len(cities)
	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}
	return stats
}

// FormatCurrency renders a whole-dollar USD amount for display.
func FormatCurrency(value float64) string {
	return "$" + groupThousands(fmt.Sprintf("%.0f", value))
}

// FormatNumber abbreviates large values with K/M suffixes.
func FormatNumber(value float64) string {
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("%.1fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("%.1fK", value/1_000)
	default:
		return fmt.Sprintf("%.0f", value)
	}
}

// FormatLocationName renders "City, Country", or just the country for
// country-level aggregates.
func FormatLocationName(loc models.LocationData) string {
	if loc.City != "" {
		return loc.City + ", " + loc.Country
	}
	return loc.Country
}

func groupThousands(digits string) string {
	neg := false
	if len(digits) > 0 && digits[0] == '-' {
		neg = true
		digits = digits[1:]
	}
	for i := len(digits) - 3; i > 0; i -= 3 {
		digits = digits[:i] + "," + digits[i:]
	}
	if neg {
		return "-" + digits
	}
	return digits
}
