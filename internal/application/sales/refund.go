package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// RefundSaleUseCase reembolsa una venta completada, total o parcialmente,
// devolviendo el stock vía el motor de inventario (tipo return).
type RefundSaleUseCase struct {
	txRunner SalesTxRunner
}

// NewRefundSaleUseCase construye el caso de uso.
func NewRefundSaleUseCase(txRunner SalesTxRunner) *RefundSaleUseCase {
	return &RefundSaleUseCase{txRunner: txRunner}
}

// Refund reembolsa la venta. ItemIDs vacío = todos los items pendientes; con
// ids, solo el subconjunto nombrado — si ningún id corresponde a un item real,
// la petición se rechaza con ErrInvalidInput, y si alguno ya fue reembolsado
// antes, con ErrConflict (un item vuelve al stock a lo sumo una vez). La venta
// pasa a refunded cuando TODOS sus items quedaron reembolsados, acumulando
// parciales anteriores; si no, queda completed con una nota append-only
// registrando el reembolso parcial. Todo en una transacción.
func (uc *RefundSaleUseCase) Refund(ctx context.Context, userID, saleID string, in dto.RefundRequest) (*dto.RefundResponse, error) {
	if saleID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var resp *dto.RefundResponse
	err := uc.txRunner.RunSales(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Bloquea la cabecera: dos reembolsos concurrentes de la misma venta
		// se serializan aquí.
		sale, err := saleRepo.GetForUpdate(saleID)
		if err != nil {
			return err
		}
		if sale == nil || sale.Status != entity.SaleStatusCompleted {
			return domain.ErrNotFound
		}

		items, err := saleRepo.GetItemsBySaleID(saleID)
		if err != nil {
			return err
		}

		alreadyRefunded := 0
		for _, it := range items {
			if it.Refunded {
				alreadyRefunded++
			}
		}

		var targets []*entity.SaleItem
		if len(in.ItemIDs) > 0 {
			wanted := make(map[string]bool, len(in.ItemIDs))
			for _, id := range in.ItemIDs {
				wanted[id] = true
			}
			for _, it := range items {
				if !wanted[it.ID] {
					continue
				}
				// Repetir un id ya reembolsado inflaría el stock sin límite.
				if it.Refunded {
					return fmt.Errorf("item %s ya reembolsado: %w", it.ID, domain.ErrConflict)
				}
				targets = append(targets, it)
			}
		} else {
			for _, it := range items {
				if !it.Refunded {
					targets = append(targets, it)
				}
			}
		}
		if len(targets) == 0 {
			return domain.ErrInvalidInput
		}

		restocked := 0
		for _, it := range targets {
			minLevel := 0
			if product, err := productRepo.GetByID(it.ProductID); err != nil {
				return err
			} else if product != nil {
				// El producto puede haberse desactivado después de la venta;
				// el stock se devuelve igual.
				minLevel = product.MinStockLevel
			}
			if _, _, err := inventory.ApplyDelta(stockRepo, movRepo, alertRepo, inventory.ApplyDeltaInput{
				ProductID:     it.ProductID,
				VariantID:     it.VariantID,
				Type:          entity.MovementTypeReturn,
				Quantity:      it.Quantity,
				MinStockLevel: minLevel,
				Note:          in.Reason,
				ReferenceID:   saleID,
				ReferenceType: "refund",
				CreatedBy:     userID,
				Now:           now,
			}); err != nil {
				return err
			}
			if err := saleRepo.MarkItemRefunded(it.ID); err != nil {
				return err
			}
			restocked += it.Quantity
		}

		full := alreadyRefunded+len(targets) == len(items)
		annotation := fmt.Sprintf("[%s] reembolso de %d de %d items", now.Format("2006-01-02 15:04"), len(targets), len(items))
		if in.Reason != "" {
			annotation += ": " + in.Reason
		}
		if sale.Notes != "" {
			sale.Notes += "\n"
		}
		sale.Notes += annotation
		if full {
			sale.Status = entity.SaleStatusRefunded
		}
		sale.UpdatedAt = now
		if err := saleRepo.Update(sale); err != nil {
			return err
		}

		resp = &dto.RefundResponse{
			SaleID:         saleID,
			Status:         sale.Status,
			RefundedItems:  len(targets),
			RestockedUnits: restocked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
