package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ordersight/internal/clients/dql"
	"ordersight/internal/config"
	"ordersight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor routes queries to canned results by substring match, in the
// order the rules were added.
type fakeExecutor struct {
	rules   []fakeRule
	queries []string
}

type fakeRule struct {
	contains string
	rows     []dql.Row
	err      error
}

func (f *fakeExecutor) on(contains string, rows []dql.Row, err error) {
	f.rules = append(f.rules, fakeRule{contains: contains, rows: rows, err: err})
}

func (f *fakeExecutor) Execute(_ context.Context, query string) ([]dql.Row, error) {
	f.queries = append(f.queries, query)
	for _, r := range f.rules {
		if strings.Contains(query, r.contains) {
			return r.rows, r.err
		}
	}
	return []dql.Row{}, nil
}

func newTestOrchestrator(exec QueryExecutor) *Orchestrator {
	return New(exec, nil, nil, &config.Config{}, nil)
}

func TestOrdersAppliesDefaultTimeframe(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on("fetch bizevents", []dql.Row{
		{"orderId": "ORD-1", "sessionId": "s1", "event.type": models.EventTypeCheckoutSuccess},
	}, nil)

	orch := newTestOrchestrator(exec)
	list, err := orch.Orders(context.Background(), models.OrderFilters{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ORD-1", list[0].OrderID)

	require.Len(t, exec.queries, 1)
	assert.Contains(t, exec.queries[0], "from: now()-2h")
	assert.Contains(t, exec.queries[0], "to: now()")
}

func TestOrdersPropagatesQueryError(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on("fetch bizevents", nil, dql.ErrQueryFailed)

	orch := newTestOrchestrator(exec)
	_, err := orch.Orders(context.Background(), models.OrderFilters{})
	require.Error(t, err)
	assert.ErrorIs(t, err, dql.ErrQueryFailed)
}

func TestOrderDetailRoutesSurrogateBySession(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on(`sessionId == "sess-7"`, []dql.Row{
		{"sessionId": "sess-7", "event.type": models.EventTypeCheckoutFailure, "items": "[]"},
	}, nil)

	orch := newTestOrchestrator(exec)
	detail, err := orch.OrderDetail(context.Background(), "session:sess-7")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "session:sess-7", detail.Order.OrderID)
	assert.Empty(t, detail.Items)

	require.Len(t, exec.queries, 1)
	assert.Contains(t, exec.queries[0], `sessionId == "sess-7"`)
	assert.NotContains(t, exec.queries[0], "orderId ==")
}

func TestOrderDetailNotFound(t *testing.T) {
	orch := newTestOrchestrator(&fakeExecutor{})
	detail, err := orch.OrderDetail(context.Background(), "ORD-missing")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestOrderDetailParsesItems(t *testing.T) {
	itemsJSON := `[{"cost":{"currencyCode":"USD","units":5,"nanos":0},` +
		`"item":{"productId":"P-1","quantity":1,"product":{"name":"Lens","priceUsd":{"units":5,"nanos":0}}}}]`

	exec := &fakeExecutor{}
	exec.on(`orderId == "ORD-1"`, []dql.Row{
		{"orderId": "ORD-1", "items": itemsJSON, "event.type": models.EventTypeCheckoutSuccess},
	}, nil)

	orch := newTestOrchestrator(exec)
	detail, err := orch.OrderDetail(context.Background(), "ORD-1")
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Lens", detail.Items[0].Name)
	assert.Equal(t, 5.0, detail.Items[0].LineTotal)
}

func TestStatistics(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on("successCount", []dql.Row{
		{"successCount": json.Number("9"), "failureCount": json.Number("1")},
	}, nil)

	orch := newTestOrchestrator(exec)
	stats, err := orch.Statistics(context.Background(), models.OrderFilters{})
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalOrders)
	assert.Equal(t, 90.0, stats.SuccessRate)
}

func TestLocations(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on("shippingAddress.country", []dql.Row{
		{
			"shippingAddress.country": "Germany",
			"order_count":             json.Number("4"),
			"total_revenue":           json.Number("80"),
			"avg_order_value":         json.Number("20"),
		},
	}, nil)

	orch := newTestOrchestrator(exec)
	result, err := orch.Locations(context.Background(), models.GeoFilters{})
	require.NoError(t, err)
	require.Len(t, result.Locations, 1)
	require.Len(t, result.TopLocations, 1)
	assert.Equal(t, 4, result.Statistics.TotalOrders)
	assert.Equal(t, 80.0, result.Statistics.TotalRevenue)

	require.Len(t, exec.queries, 1)
	assert.Contains(t, exec.queries[0], "from: now()-7d")
}

func TestLocationsRanksByRequestedMetric(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on("shippingAddress.country", []dql.Row{
		{
			"shippingAddress.country": "Germany",
			"order_count":             json.Number("10"),
			"total_revenue":           json.Number("50"),
		},
		{
			"shippingAddress.country": "France",
			"order_count":             json.Number("2"),
			"total_revenue":           json.Number("900"),
		},
	}, nil)

	orch := newTestOrchestrator(exec)
	result, err := orch.Locations(context.Background(), models.GeoFilters{
		Metric: models.MetricRevenue,
		Limit:  1,
	})
	require.NoError(t, err)

	// The full aggregate keeps query order; the ranking follows the metric.
	require.Len(t, result.Locations, 2)
	require.Len(t, result.TopLocations, 1)
	assert.Equal(t, "France", result.TopLocations[0].Country)
}

func TestLocationsUsesConfiguredCoordinateTables(t *testing.T) {
	tablesPath := filepath.Join(t.TempDir(), "tables.json")
	require.NoError(t, os.WriteFile(tablesPath, []byte(
		`{"countries": {"Fantasia": {"lat": 3, "lng": 4}}}`), 0644))

	exec := &fakeExecutor{}
	exec.on("shippingAddress.country", []dql.Row{
		{"shippingAddress.country": "Fantasia", "order_count": json.Number("1")},
	}, nil)

	cfg := &config.Config{}
	cfg.Geo.TablesPath = tablesPath
	orch := New(exec, nil, nil, cfg, nil)

	result, err := orch.Locations(context.Background(), models.GeoFilters{})
	require.NoError(t, err)
	require.Len(t, result.Locations, 1)
	assert.Equal(t, models.Coordinates{Lat: 3, Lng: 4}, result.Locations[0].Coordinates)
}

func TestTraceInsightsToleratesPartialFailure(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on("max_duration", []dql.Row{{
		"max_duration": json.Number("3000000000"),
		"total_spans":  json.Number("10"),
		"error_count":  json.Number("0"),
	}}, nil)
	exec.on("total_time", nil, errors.New("service query exploded"))
	exec.on("db_time", nil, errors.New("db query exploded"))
	exec.on("exception.type", []dql.Row{}, nil)

	orch := newTestOrchestrator(exec)
	insights, err := orch.TraceInsights(context.Background(), "abc", "2024-03-01T10:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, insights)

	// Failed sub-queries degrade to empty data; the totals still classify.
	assert.Equal(t, models.BadgeVerySlow, insights.PerformanceBadge)
	assert.Empty(t, insights.ServiceBreakdown)
	assert.Empty(t, insights.DatabaseOperations.Operations)
}

func TestTraceInsightsTotalsFailureIsFatal(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on("max_duration", nil, dql.ErrQueryFailed)

	orch := newTestOrchestrator(exec)
	_, err := orch.TraceInsights(context.Background(), "abc", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, dql.ErrQueryFailed)
}

func TestTraceInsightsNilWithoutTotalsData(t *testing.T) {
	exec := &fakeExecutor{}
	exec.on("total_time", []dql.Row{{"service.name": "checkout", "total_time": json.Number("5")}}, nil)

	orch := newTestOrchestrator(exec)
	insights, err := orch.TraceInsights(context.Background(), "abc", "")
	require.NoError(t, err)
	assert.Nil(t, insights)
}
