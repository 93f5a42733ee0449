package dto

import "github.com/shopspring/decimal"

// DashboardSummaryResponse métricas agregadas para el dashboard.
type DashboardSummaryResponse struct {
	TotalProducts int             `json:"total_products"`
	ActiveAlerts  int             `json:"active_alerts"`
	SalesToday    int             `json:"sales_today"`
	RevenueToday  decimal.Decimal `json:"revenue_today"`
}
