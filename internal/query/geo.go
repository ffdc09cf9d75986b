package query

import (
	"fmt"

	"ordersight/internal/models"
)

// Locations builds the aggregate of successful checkouts grouped by shipping
// location. The city view groups by country and city; the country view by
// country alone.
func Locations(f models.GeoFilters) string {
	groupBy := "shippingAddress.country"
	if f.ViewMode == models.ViewModeCity {
		groupBy = "shippingAddress.country, shippingAddress.city"
	}

	return fmt.Sprintf(`fetch bizevents, from: %s, to: %s
| filter event.type == %q
| filter isNotNull(shippingAddress.country)
| summarize {
    order_count = count(),
    total_revenue = sum(shippingCostTotal),
    avg_order_value = sum(shippingCostTotal) / count()
  },
  by: {%s}
| sort order_count desc
| limit 200`,
		FormatTimeValue(f.Timeframe.From),
		FormatTimeValue(f.Timeframe.To),
		models.EventTypeCheckoutSuccess,
		groupBy,
	)
}

// LocationOrders builds the drill-down listing of successful orders shipped
// to a single location. The city predicate is added only when the location
// carries a city.
func LocationOrders(loc models.LocationData, f models.GeoFilters) string {
	filters := fmt.Sprintf(`| filter event.type == %q
| filter shippingAddress.country == "%s"`,
		models.EventTypeCheckoutSuccess, EscapeValue(loc.Country))

	if loc.City != "" {
		filters += fmt.Sprintf("\n| filter shippingAddress.city == \"%s\"", EscapeValue(loc.City))
	}

	return fmt.Sprintf(`fetch bizevents, from: %s, to: %s
%s
| fields timestamp, orderId, sessionId, shippingCostTotal
| sort timestamp desc
| limit 100`,
		FormatTimeValue(f.Timeframe.From),
		FormatTimeValue(f.Timeframe.To),
		filters,
	)
}
