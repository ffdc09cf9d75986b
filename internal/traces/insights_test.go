package traces

import (
	"encoding/json"
	"testing"

	"ordersight/internal/clients/dql"
	"ordersight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceBadge(t *testing.T) {
	tests := []struct {
		name          string
		errorCount    int
		totalDuration int64
		expected      string
	}{
		{"fast trace", 0, 400_000_000, models.BadgeFast},
		{"slow trace", 0, 600_000_000, models.BadgeSlow},
		{"very slow trace", 0, 3_000_000_000, models.BadgeVerySlow},
		{"error dominates duration", 1, 100_000_000, models.BadgeError},
		{"error on very slow trace", 2, 3_000_000_000, models.BadgeError},
		{"boundary 500ms is still fast", 0, 500_000_000, models.BadgeFast},
		{"boundary 2s is still slow", 0, 2_000_000_000, models.BadgeSlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PerformanceBadge(tt.errorCount, tt.totalDuration))
		})
	}
}

func TestBuildInsightsNilWithoutTotals(t *testing.T) {
	services := []dql.Row{{"service.name": "checkout", "total_time": json.Number("100")}}

	// Partial data alone is insufficient: no totals, no insight.
	assert.Nil(t, BuildInsights(nil, services, nil, nil))
	assert.Nil(t, BuildInsights([]dql.Row{}, services, nil, nil))
}

func TestBuildInsights(t *testing.T) {
	totals := []dql.Row{{
		"max_duration": json.Number("2000000000"),
		"total_spans":  json.Number("40"),
		"error_count":  json.Number("0"),
	}}
	services := []dql.Row{
		{"service.name": "checkout", "total_time": json.Number("1500000000"), "span_count": json.Number("25")},
		{"service.name": "payment", "total_time": json.Number("500000000"), "span_count": json.Number("15")},
	}
	dbOps := []dql.Row{
		{"db.system": "postgresql", "db_time": json.Number("300000000"), "db_calls": json.Number("12")},
		{"db.system": "redis", "db_time": json.Number("50000000"), "db_calls": json.Number("30")},
	}

	insights := BuildInsights(totals, services, dbOps, nil)
	require.NotNil(t, insights)

	assert.Equal(t, int64(2_000_000_000), insights.TotalDuration)
	assert.Equal(t, 40, insights.SpanCount)
	assert.Equal(t, models.BadgeSlow, insights.PerformanceBadge)
	assert.Equal(t, "checkout", insights.SlowestService)
	assert.False(t, insights.HasRetries)

	require.Len(t, insights.ServiceBreakdown, 2)
	assert.InDelta(t, 75.0, insights.ServiceBreakdown[0].Percentage, 1e-9)
	assert.InDelta(t, 25.0, insights.ServiceBreakdown[1].Percentage, 1e-9)

	assert.Equal(t, 42, insights.DatabaseOperations.TotalCalls)
	assert.Equal(t, int64(350_000_000), insights.DatabaseOperations.TotalDuration)
	assert.Empty(t, insights.Errors)
}

func TestBuildInsightsErrorBadge(t *testing.T) {
	totals := []dql.Row{{
		"max_duration": json.Number("100000000"),
		"total_spans":  json.Number("5"),
		"error_count":  json.Number("1"),
	}}
	errorRows := []dql.Row{{
		"service.name":              "payment",
		"span.name":                 "charge",
		"exception.type":            "TimeoutError",
		"exception.message":         "deadline exceeded",
		"http.response.status_code": json.Number("504"),
	}}

	insights := BuildInsights(totals, nil, nil, errorRows)
	require.NotNil(t, insights)

	assert.Equal(t, models.BadgeError, insights.PerformanceBadge)
	require.Len(t, insights.Errors, 1)
	assert.Equal(t, "payment", insights.Errors[0].ServiceName)
	assert.Equal(t, "TimeoutError", insights.Errors[0].ExceptionType)
	assert.Equal(t, 504, insights.Errors[0].StatusCode)
	assert.Empty(t, insights.SlowestService)
}

func TestBuildInsightsUnknownFallbacks(t *testing.T) {
	totals := []dql.Row{{"max_duration": json.Number("0"), "total_spans": json.Number("1")}}
	services := []dql.Row{{"total_time": json.Number("10")}}
	errorRows := []dql.Row{{}}

	insights := BuildInsights(totals, services, nil, errorRows)
	require.NotNil(t, insights)

	assert.Equal(t, "unknown", insights.ServiceBreakdown[0].ServiceName)
	// Zero total duration keeps the percentage at 0, never NaN.
	assert.Zero(t, insights.ServiceBreakdown[0].Percentage)
	assert.Equal(t, "unknown", insights.Errors[0].ExceptionType)
	assert.Equal(t, "No message", insights.Errors[0].ExceptionMessage)
}
