package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ApplyDeltaInput entrada para aplicar un cambio de cantidad a una línea de stock.
// Quantity es la magnitud solicitada para in/out/sale/return/damaged y el valor
// objetivo absoluto para adjustment.
type ApplyDeltaInput struct {
	ProductID     string
	VariantID     string
	Type          string // entity.MovementType*
	Quantity      int
	MinStockLevel int // umbral del producto, para reconciliar la alerta
	Note          string
	ReferenceID   string
	ReferenceType string
	CreatedBy     string
	Now           time.Time
}

// ApplyDelta aplica un delta de cantidad a la línea (producto, variante) dentro
// de la transacción del caller: bloquea la fila (SELECT FOR UPDATE), calcula la
// cantidad resultante según el tipo, actualiza la línea, escribe exactamente un
// movimiento en el libro y reconcilia el estado de alerta. Todo en la misma tx.
//
// Reglas por tipo:
//   - in, return: after = before + Quantity.
//   - out, sale, damaged: after = max(0, before - |Quantity|); nunca negativo.
//     QuantityChange registra el delta realmente aplicado, no el solicitado.
//   - adjustment: after = Quantity (asignación absoluta).
//
// Retorna ErrNotFound si la línea de stock no existe (las líneas se aprovisionan
// al crear el producto, nunca aquí).
func ApplyDelta(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
	in ApplyDeltaInput,
) (*entity.StockLine, *entity.StockMovement, error) {
	line, err := stockRepo.GetForUpdate(in.ProductID, in.VariantID)
	if err != nil {
		return nil, nil, err
	}
	if line == nil {
		return nil, nil, domain.ErrNotFound
	}

	before := line.Quantity
	var after int
	switch in.Type {
	case entity.MovementTypeIn, entity.MovementTypeReturn:
		if in.Quantity < 0 {
			return nil, nil, domain.ErrInvalidInput
		}
		after = before + in.Quantity
	case entity.MovementTypeOut, entity.MovementTypeSale, entity.MovementTypeDamaged:
		after = before - abs(in.Quantity)
		if after < 0 {
			after = 0
		}
	case entity.MovementTypeAdjustment:
		if in.Quantity < 0 {
			return nil, nil, domain.ErrInvalidInput
		}
		after = in.Quantity
	default:
		return nil, nil, domain.ErrInvalidInput
	}

	line.Quantity = after
	line.UpdatedAt = in.Now
	line.UpdatedBy = in.CreatedBy
	if err := stockRepo.Update(line); err != nil {
		return nil, nil, err
	}

	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		VariantID:      in.VariantID,
		Type:           in.Type,
		QuantityChange: after - before,
		QuantityBefore: before,
		QuantityAfter:  after,
		ReferenceID:    in.ReferenceID,
		ReferenceType:  in.ReferenceType,
		Note:           in.Note,
		CreatedBy:      in.CreatedBy,
		CreatedAt:      in.Now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, nil, err
	}

	if err := ReconcileAlert(alertRepo, in.ProductID, in.VariantID, after, in.MinStockLevel, in.Now); err != nil {
		return nil, nil, err
	}
	return line, mov, nil
}

// ReconcileAlert decide el estado de alerta de una línea tras un cambio de
// cantidad. Si la cantidad quedó en o por debajo del mínimo y no hay alerta
// activa, crea una (con snapshot del primer cruce; una alerta activa existente
// no se toca). Si la cantidad quedó por encima del mínimo, resuelve la alerta
// activa si la hay — sin acknowledger, para distinguir resolución automática
// de reconocimiento manual. Idempotente: repetir con los mismos valores no
// duplica alertas ni cambia nada.
func ReconcileAlert(alertRepo repository.AlertRepository, productID, variantID string, newQuantity, minLevel int, now time.Time) error {
	active, err := alertRepo.GetActive(productID, variantID)
	if err != nil {
		return err
	}
	if newQuantity <= minLevel {
		if active != nil {
			return nil
		}
		alert := &entity.LowStockAlert{
			ID:            uuid.New().String(),
			ProductID:     productID,
			VariantID:     variantID,
			CurrentStock:  newQuantity,
			MinStockLevel: minLevel,
			Status:        entity.AlertStatusActive,
			CreatedAt:     now,
		}
		return alertRepo.Create(alert)
	}
	if active == nil {
		return nil
	}
	resolvedAt := now
	active.Status = entity.AlertStatusResolved
	active.ResolvedAt = &resolvedAt
	return alertRepo.Update(active)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
