package entity

import "github.com/shopspring/decimal"

// DashboardSummary métricas agregadas calculadas por la capa de reportes.
type DashboardSummary struct {
	TotalProducts int
	ActiveAlerts  int
	SalesToday    int
	RevenueToday  decimal.Decimal
}
