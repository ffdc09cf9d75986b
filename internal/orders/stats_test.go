package orders

import (
	"encoding/json"
	"testing"

	"ordersight/internal/clients/dql"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name       string
		successful int
		failed     int
		expected   float64
	}{
		{"no orders", 0, 0, 0},
		{"all successful", 10, 0, 100},
		{"all failed", 0, 5, 0},
		{"mixed", 3, 1, 75},
		{"single success", 1, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuccessRate(tt.successful, tt.failed))
		})
	}
}

func TestStatisticsFromRows(t *testing.T) {
	rows := []dql.Row{
		{"successCount": json.Number("8"), "failureCount": json.Number("2")},
	}

	stats := StatisticsFromRows(rows)
	assert.Equal(t, 10, stats.TotalOrders)
	assert.Equal(t, 8, stats.SuccessfulOrders)
	assert.Equal(t, 2, stats.FailedOrders)
	assert.Equal(t, 80.0, stats.SuccessRate)
}

func TestStatisticsFromRowsEmpty(t *testing.T) {
	stats := StatisticsFromRows(nil)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.SuccessRate)
}

func TestStatisticsFromRowsMissingFields(t *testing.T) {
	stats := StatisticsFromRows([]dql.Row{{}})
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.SuccessRate)
}
