package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas (solo lectura) sobre PostgreSQL.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Summary calcula las métricas del día: productos activos, alertas activas y
// ventas desde la medianoche local (excluyendo reembolsadas del revenue).
func (r *DashboardRepo) Summary(day time.Time) (*entity.DashboardSummary, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	query := `
		SELECT
			(SELECT count(*) FROM products WHERE deleted_at IS NULL AND active = true),
			(SELECT count(*) FROM low_stock_alerts WHERE status = 'active'),
			(SELECT count(*) FROM sales WHERE created_at >= $1),
			(SELECT coalesce(sum(total), 0) FROM sales WHERE created_at >= $1 AND status != 'refunded')`
	var s entity.DashboardSummary
	err := r.q.QueryRow(context.Background(), query, startOfDay).Scan(
		&s.TotalProducts, &s.ActiveAlerts, &s.SalesToday, &s.RevenueToday,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return &s, nil
}
