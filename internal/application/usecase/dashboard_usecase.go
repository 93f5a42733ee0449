package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// DashboardUseCase métricas agregadas para el dashboard.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashboardRepo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{dashboardRepo: dashboardRepo}
}

// Summary devuelve las métricas del día actual.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	summary, err := uc.dashboardRepo.Summary(time.Now())
	if err != nil {
		return nil, err
	}
	return &dto.DashboardSummaryResponse{
		TotalProducts: summary.TotalProducts,
		ActiveAlerts:  summary.ActiveAlerts,
		SalesToday:    summary.SalesToday,
		RevenueToday:  summary.RevenueToday,
	}, nil
}
