package orders

import (
	"ordersight/internal/clients/dql"
	"ordersight/internal/models"
)

// SuccessRate returns the success percentage of checkouts, defined as 0 when
// there were no checkouts at all.
func SuccessRate(successful, failed int) float64 {
	total := successful + failed
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total) * 100
}

// StatisticsFromRows builds checkout statistics from the statistics query
// result. An empty result set yields the zero statistics.
func StatisticsFromRows(rows []dql.Row) models.OrderStatistics {
	if len(rows) == 0 {
		return models.OrderStatistics{}
	}

	row := rows[0]
	successful := int(row.Int("successCount"))
	failed := int(row.Int("failureCount"))

	return models.OrderStatistics{
		TotalOrders:      successful + failed,
		SuccessfulOrders: successful,
		FailedOrders:     failed,
		SuccessRate:      SuccessRate(successful, failed),
	}
}
