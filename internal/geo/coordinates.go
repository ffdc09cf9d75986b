// Package geo resolves shipping locations to map coordinates and derives
// display values for the geographic analytics view.
package geo

import (
	"log/slog"

	"ordersight/internal/models"
)

// WorldCenter is the last-resort coordinate when neither the city nor the
// country is known.
var WorldCenter = models.Coordinates{Lat: 20, Lng: 0}

// cityCoordinates maps "City,Country" keys to coordinates for the cities
// observed in shipping addresses.
var cityCoordinates = map[string]models.Coordinates{
	"London,United Kingdom":       {Lat: 51.5074, Lng: -0.1278},
	"Berlin,Germany":              {Lat: 52.52, Lng: 13.405},
	"Seattle,United States":       {Lat: 47.6062, Lng: -122.3321},
	"Menlo Park,United States":    {Lat: 37.4848, Lng: -122.1477},
	"San Francisco,United States": {Lat: 37.7749, Lng: -122.4194},
	"Mountain View,United States": {Lat: 37.3861, Lng: -122.084},
	"Springfield,United States":   {Lat: 39.7817, Lng: -89.6501},
	"Santa Clara,United States":   {Lat: 37.3382, Lng: -121.8863},
	"Cupertino,United States":     {Lat: 37.3229, Lng: -122.0322},
	"Redmond,United States":       {Lat: 47.6739, Lng: -122.1215},
	"New York,United States":      {Lat: 40.7128, Lng: -74.006},
	"Los Angeles,United States":   {Lat: 34.0522, Lng: -118.2437},
	"Chicago,United States":       {Lat: 41.8781, Lng: -87.6298},
	"Houston,United States":       {Lat: 29.7604, Lng: -95.3698},
	"Phoenix,United States":       {Lat: 33.4484, Lng: -112.074},
	"Philadelphia,United States":  {Lat: 39.9526, Lng: -75.1652},
	"San Antonio,United States":   {Lat: 29.4241, Lng: -98.4936},
	"San Diego,United States":     {Lat: 32.7157, Lng: -117.1611},
	"Dallas,United States":        {Lat: 32.7767, Lng: -96.797},
	"Austin,United States":        {Lat: 30.2672, Lng: -97.7431},
	"Paris,France":                {Lat: 48.8566, Lng: 2.3522},
	"Lyon,France":                 {Lat: 45.764, Lng: 4.8357},
	"Marseille,France":            {Lat: 43.2965, Lng: 5.3698},
	"Madrid,Spain":                {Lat: 40.4168, Lng: -3.7038},
	"Barcelona,Spain":             {Lat: 41.3851, Lng: 2.1734},
	"Amsterdam,Netherlands":       {Lat: 52.3676, Lng: 4.9041},
	"Rotterdam,Netherlands":       {Lat: 51.9225, Lng: 4.4792},
	"Milan,Italy":                 {Lat: 45.4642, Lng: 9.19},
	"Rome,Italy":                  {Lat: 41.9028, Lng: 12.4964},
	"Vienna,Austria":              {Lat: 48.2082, Lng: 16.3738},
	"Zurich,Switzerland":          {Lat: 47.3769, Lng: 8.5472},
	"Geneva,Switzerland":          {Lat: 46.2017, Lng: 6.1432},
	"Stockholm,Sweden":            {Lat: 59.3293, Lng: 18.0686},
	"Copenhagen,Denmark":          {Lat: 55.6761, Lng: 12.5683},
	"Oslo,Norway":                 {Lat: 59.9139, Lng: 10.7522},
	"Dublin,Ireland":              {Lat: 53.3498, Lng: -6.2603},
	"Toronto,Canada":              {Lat: 43.6532, Lng: -79.3832},
	"Vancouver,Canada":            {Lat: 49.2827, Lng: -123.1207},
	"Montreal,Canada":             {Lat: 45.5017, Lng: -73.5673},
	"Tokyo,Japan":                 {Lat: 35.6762, Lng: 139.6503},
	"Osaka,Japan":                 {Lat: 34.6937, Lng: 135.5023},
	"Shanghai,China":              {Lat: 31.2304, Lng: 121.4737},
	"Beijing,China":               {Lat: 39.9042, Lng: 116.4074},
	"Hong Kong,Hong Kong":         {Lat: 22.3193, Lng: 114.1694},
	"Singapore,Singapore":         {Lat: 1.3521, Lng: 103.8198},
	"Sydney,Australia":            {Lat: -33.8688, Lng: 151.2093},
	"Melbourne,Australia":         {Lat: -37.8136, Lng: 144.9631},
	"Bangkok,Thailand":            {Lat: 13.7563, Lng: 100.5018},
	"Mumbai,India":                {Lat: 19.076, Lng: 72.8777},
	"Delhi,India":                 {Lat: 28.7041, Lng: 77.1025},
}

// countryCoordinates maps country names to a centroid used when the city is
// unknown.
var countryCoordinates = map[string]models.Coordinates{
	"United States":  {Lat: 39.8283, Lng: -98.5795},
	"Germany":        {Lat: 51.1657, Lng: 10.4515},
	"United Kingdom": {Lat: 55.3781, Lng: -3.436},
	"France":         {Lat: 46.2276, Lng: 2.2137},
	"Spain":          {Lat: 40.4637, Lng: -3.7492},
	"Italy":          {Lat: 41.8719, Lng: 12.5674},
	"Netherlands":    {Lat: 52.1326, Lng: 5.2913},
	"Austria":        {Lat: 47.5162, Lng: 14.5501},
	"Switzerland":    {Lat: 46.8182, Lng: 8.2275},
	"Sweden":         {Lat: 60.1282, Lng: 18.6435},
	"Denmark":        {Lat: 56.2639, Lng: 9.5018},
	"Norway":         {Lat: 60.472, Lng: 8.4689},
	"Ireland":        {Lat: 53.4129, Lng: -8.2439},
	"Canada":         {Lat: 56.1304, Lng: -106.3468},
	"Japan":          {Lat: 36.2048, Lng: 138.2529},
	"China":          {Lat: 35.8617, Lng: 104.1954},
	"Hong Kong":      {Lat: 22.3193, Lng: 114.1694},
	"Singapore":      {Lat: 1.3521, Lng: 103.8198},
	"Australia":      {Lat: -25.2744, Lng: 133.7751},
	"Thailand":       {Lat: 15.87, Lng: 100.9925},
	"India":          {Lat: 20.5937, Lng: 78.9629},
}

// Resolver looks up coordinates for shipping locations. The zero value uses
// the built-in tables; custom tables can be installed for deployments that
// ship to locations outside the default set.
type Resolver struct {
	cities    map[string]models.Coordinates
	countries map[string]models.Coordinates
	logger    *slog.Logger
}

// NewResolver creates a resolver over the built-in lookup tables.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cities:    cityCoordinates,
		countries: countryCoordinates,
		logger:    logger,
	}
}

// NewResolverWithTables creates a resolver over caller-supplied tables.
// Either table may be nil to keep the built-in one.
func NewResolverWithTables(cities, countries map[string]models.Coordinates, logger *slog.Logger) *Resolver {
	r := NewResolver(logger)
	if cities != nil {
		r.cities = cities
	}
	if countries != nil {
		r.countries = countries
	}
	return r
}

// Coordinates resolves a location: exact "City,Country" match first, then
// the country centroid, then the world-center fallback. It never fails; an
// unknown location only produces a warning.
func (r *Resolver) Coordinates(country, city string) models.Coordinates {
	if city != "" {
		if c, ok := r.cities[city+","+country]; ok {
			return c
		}
	}
	if c, ok := r.countries[country]; ok {
		return c
	}
	r.logger.Warn("No coordinates found for location", "country", country, "city", city)
	return WorldCenter
}
