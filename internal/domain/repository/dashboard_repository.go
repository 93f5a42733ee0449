package repository

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// DashboardRepository define el puerto de consultas agregadas (solo lectura).
type DashboardRepository interface {
	// Summary calcula las métricas del día indicado (ventas desde la medianoche
	// local de ese día).
	Summary(day time.Time) (*entity.DashboardSummary, error)
}
