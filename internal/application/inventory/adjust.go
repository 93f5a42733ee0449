package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// AdjustStockUseCase ajustes manuales de stock: individual (transacción
// completa o nada) y masivo (aislamiento de fallas por item).
type AdjustStockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, productRepo: productRepo}
}

// validAdjustType tipos permitidos en ajustes manuales; sale y return se
// reservan al motor de ventas y reembolsos.
func validAdjustType(t string) bool {
	return t == entity.MovementTypeIn || t == entity.MovementTypeOut || t == entity.MovementTypeAdjustment
}

func validAdjustQuantity(t string, q int) bool {
	if t == entity.MovementTypeAdjustment {
		return q >= 0
	}
	return q >= 1
}

// Adjust aplica un ajuste individual. El producto debe existir y estar activo;
// la línea de stock debe existir. Ledger, stock y alerta se confirman juntos o
// no se confirma nada.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.ProductID == "" || !validAdjustType(in.Type) || !validAdjustQuantity(in.Type, in.Quantity) {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var resp *dto.AdjustStockResponse
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
		_ repository.ProductRepository,
	) error {
		line, mov, err := ApplyDelta(stockRepo, movRepo, alertRepo, ApplyDeltaInput{
			ProductID:     in.ProductID,
			VariantID:     in.VariantID,
			Type:          in.Type,
			Quantity:      in.Quantity,
			MinStockLevel: product.MinStockLevel,
			Note:          in.Note,
			CreatedBy:     userID,
			Now:           now,
		})
		if err != nil {
			return err
		}
		resp = &dto.AdjustStockResponse{
			Stock:    toStockLineResponse(line),
			Movement: toMovementResponse(mov),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// BulkAdjust aplica una lista de ajustes en UNA transacción. La política es
// validar-y-confirmar-todo-o-nada para el subconjunto exitoso: los items que
// fallan validación (producto inexistente o inactivo, línea de stock ausente,
// tipo o cantidad inválidos) se reportan en failed y no abortan el lote; los
// items válidos se aplican y confirman juntos. Un error de escritura inesperado
// revierte el lote completo y se propaga como error.
func (uc *AdjustStockUseCase) BulkAdjust(ctx context.Context, userID string, in dto.BulkAdjustRequest) (*dto.BulkAdjustResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	resp := &dto.BulkAdjustResponse{Total: len(in.Items)}

	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
		productRepo repository.ProductRepository,
	) error {
		for _, item := range in.Items {
			result := dto.BulkAdjustItemResult{ProductID: item.ProductID, VariantID: item.VariantID}

			if item.ProductID == "" || !validAdjustType(item.Type) || !validAdjustQuantity(item.Type, item.Quantity) {
				result.Error = "tipo o cantidad inválidos"
				resp.Results = append(resp.Results, result)
				resp.Failed++
				continue
			}
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.Active {
				result.Error = "producto no encontrado o inactivo"
				resp.Results = append(resp.Results, result)
				resp.Failed++
				continue
			}
			if existing, err := stockRepo.Get(item.ProductID, item.VariantID); err != nil {
				return err
			} else if existing == nil {
				result.Error = "línea de stock no encontrada"
				resp.Results = append(resp.Results, result)
				resp.Failed++
				continue
			}

			line, _, err := ApplyDelta(stockRepo, movRepo, alertRepo, ApplyDeltaInput{
				ProductID:     item.ProductID,
				VariantID:     item.VariantID,
				Type:          item.Type,
				Quantity:      item.Quantity,
				MinStockLevel: product.MinStockLevel,
				Note:          in.Note,
				CreatedBy:     userID,
				Now:           now,
			})
			if err != nil {
				// La línea ya se verificó arriba; cualquier error aquí es de
				// almacenamiento y revierte el lote completo.
				return err
			}
			result.Success = true
			result.NewQuantity = line.Quantity
			resp.Results = append(resp.Results, result)
			resp.Successful++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func toStockLineResponse(line *entity.StockLine) dto.StockLineResponse {
	return dto.StockLineResponse{
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		Quantity:  line.Quantity,
		Reserved:  line.Reserved,
		UpdatedAt: line.UpdatedAt,
		UpdatedBy: line.UpdatedBy,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		VariantID:      m.VariantID,
		Type:           m.Type,
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		ReferenceID:    m.ReferenceID,
		ReferenceType:  m.ReferenceType,
		Note:           m.Note,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}
