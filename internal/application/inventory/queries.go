package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// StockQueryUseCase lecturas de stock, movimientos y alertas, más el
// reconocimiento manual de alertas.
type StockQueryUseCase struct {
	stockRepo repository.StockRepository
	movRepo   repository.StockMovementRepository
	alertRepo repository.AlertRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{stockRepo: stockRepo, movRepo: movRepo, alertRepo: alertRepo}
}

// GetStockLine devuelve la línea actual para (producto, variante).
func (uc *StockQueryUseCase) GetStockLine(ctx context.Context, productID, variantID string) (*dto.StockLineResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	line, err := uc.stockRepo.Get(productID, variantID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	resp := toStockLineResponse(line)
	return &resp, nil
}

// ListMovements lista el historial de movimientos de un producto, ordenado por
// fecha descendente, filtrable por tipo y rango de fechas.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	if filter.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	movements, err := uc.movRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// ListAlerts lista alertas por estado.
func (uc *StockQueryUseCase) ListAlerts(ctx context.Context, status string, limit, offset int) ([]dto.AlertResponse, error) {
	switch status {
	case entity.AlertStatusActive, entity.AlertStatusAcknowledged, entity.AlertStatusResolved:
	case "":
		status = entity.AlertStatusActive
	default:
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	alerts, err := uc.alertRepo.ListByStatus(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	return out, nil
}

// AcknowledgeAlert marca una alerta activa como reconocida (acción manual de
// staff, terminal: nunca se reabre automáticamente; si el stock vuelve a caer
// se crea una alerta nueva).
func (uc *StockQueryUseCase) AcknowledgeAlert(ctx context.Context, alertID, userID string) (*dto.AlertResponse, error) {
	alert, err := uc.alertRepo.GetByID(alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrNotFound
	}
	if alert.Status != entity.AlertStatusActive {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	alert.Status = entity.AlertStatusAcknowledged
	alert.AcknowledgedBy = userID
	alert.AcknowledgedAt = &now
	if err := uc.alertRepo.Update(alert); err != nil {
		return nil, err
	}
	resp := toAlertResponse(alert)
	return &resp, nil
}

func toAlertResponse(a *entity.LowStockAlert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:             a.ID,
		ProductID:      a.ProductID,
		VariantID:      a.VariantID,
		CurrentStock:   a.CurrentStock,
		MinStockLevel:  a.MinStockLevel,
		Status:         a.Status,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
	}
}
