package models

// Geographic view modes and ranking metrics.
const (
	ViewModeCountry = "country"
	ViewModeCity    = "city"

	MetricOrders  = "orders"
	MetricRevenue = "revenue"
)

// GeoFilters is the caller-owned filter state driving location queries.
// Limit caps the ranked top-locations list, not the aggregate itself.
type GeoFilters struct {
	Timeframe Timeframe `json:"timeframe"`
	ViewMode  string    `json:"viewMode"`
	Metric    string    `json:"metric"`
	Limit     int       `json:"limit"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationData aggregates successful orders for one (country, city) pair.
// City is empty in the country-level view.
type LocationData struct {
	Country       string      `json:"country"`
	City          string      `json:"city,omitempty"`
	OrderCount    int         `json:"orderCount"`
	TotalRevenue  float64     `json:"totalRevenue"`
	AvgOrderValue float64     `json:"avgOrderValue"`
	Coordinates   Coordinates `json:"coordinates"`
}

// GeoStatistics summarizes a full set of location aggregates.
type GeoStatistics struct {
	TotalOrders     int     `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	UniqueCountries int     `json:"uniqueCountries"`
	UniqueCities    int     `json:"uniqueCities"`
	AvgOrderValue   float64 `json:"avgOrderValue"`
}

// LocationOrder is the reduced order row shown when drilling into a location.
type LocationOrder struct {
	OrderID           string  `json:"orderId"`
	Timestamp         string  `json:"timestamp"`
	ShippingCostTotal float64 `json:"shippingCostTotal"`
	SessionID         string  `json:"sessionId"`
}
