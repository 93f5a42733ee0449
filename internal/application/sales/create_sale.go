package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// CreateSaleUseCase crea una venta POS y descuenta el stock de cada línea en
// una sola transacción (todo o nada a través de N productos).
type CreateSaleUseCase struct {
	txRunner    SalesTxRunner
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	saleRepo    repository.SaleRepository
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner SalesTxRunner,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		saleRepo:    saleRepo,
	}
}

func validPaymentMethod(m string) bool {
	return m == entity.PaymentMethodCash || m == entity.PaymentMethodCard || m == entity.PaymentMethodTransfer
}

// newSaleNumber genera un número de venta único: fecha + fragmento aleatorio.
func newSaleNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("POS-%s-%s", now.Format("20060102"), suffix)
}

// CreateSale valida todas las líneas contra el stock vivo ANTES de mutar nada,
// calcula totales y luego, atómicamente: inserta la cabecera, inserta cada item
// y descuenta stock vía el motor de inventario (tipo sale, referencia a la
// venta). Un faltante de stock detectado dentro de la transacción (carrera
// tardía entre la validación y el commit) aborta la venta completa sin
// persistir nada.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || !validPaymentMethod(in.PaymentMethod) {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountAmount.IsNegative() || in.TaxAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	// Validación de líneas (solo lectura, fuera de la tx): producto activo,
	// precio, y stock suficiente agregado por clave (producto, variante) —
	// dos líneas del mismo producto compiten por el mismo stock.
	productsByID := make(map[string]*entity.Product)
	requiredByKey := make(map[string]int)
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || item.Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.IsNegative() || item.Discount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, ok := productsByID[item.ProductID]
		if !ok {
			var err error
			product, err = uc.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil || !product.Active {
				return nil, fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
			}
			productsByID[item.ProductID] = product
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.Price
		}
		key := stockKey(item.ProductID, item.VariantID)
		requiredByKey[key] += item.Quantity

		line, err := uc.stockRepo.Get(item.ProductID, item.VariantID)
		if err != nil {
			return nil, err
		}
		available := 0
		if line != nil {
			available = line.Quantity
		}
		if available < requiredByKey[key] {
			return nil, &domain.InsufficientStockError{
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Available: available,
				Required:  requiredByKey[key],
			}
		}
	}

	// Totales: subtotal = Σ(cantidad × precio − descuento de línea);
	// total = subtotal − descuento global + impuesto. Descuento e impuesto son
	// entradas confiables del request validado, sin recorte adicional.
	subtotal := decimal.Zero
	for _, item := range in.Items {
		lineSubtotal := decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice).Sub(item.Discount)
		subtotal = subtotal.Add(lineSubtotal)
	}
	total := subtotal.Sub(in.DiscountAmount).Add(in.TaxAmount)

	now := time.Now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		SaleNumber:     newSaleNumber(now),
		Subtotal:       subtotal,
		DiscountAmount: in.DiscountAmount,
		TaxAmount:      in.TaxAmount,
		Total:          total,
		PaymentMethod:  in.PaymentMethod,
		Status:         entity.SaleStatusCompleted,
		CustomerName:   in.CustomerName,
		Notes:          in.Notes,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var items []*entity.SaleItem
	err := uc.txRunner.RunSales(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
		_ repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range in.Items {
			product := productsByID[item.ProductID]

			// Re-verificación bajo bloqueo de fila: un consumo concurrente
			// entre la validación y este punto aborta toda la venta.
			line, err := stockRepo.GetForUpdate(item.ProductID, item.VariantID)
			if err != nil {
				return err
			}
			if line == nil {
				return fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
			}
			if line.Quantity < item.Quantity {
				return &domain.InsufficientStockError{
					ProductID: item.ProductID,
					VariantID: item.VariantID,
					Available: line.Quantity,
					Required:  item.Quantity,
				}
			}

			saleItem := &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: item.ProductID,
				VariantID: item.VariantID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Discount:  item.Discount,
				Subtotal:  decimal.NewFromInt(int64(item.Quantity)).Mul(item.UnitPrice).Sub(item.Discount),
			}
			if err := saleRepo.CreateItem(saleItem); err != nil {
				return err
			}

			if _, _, err := inventory.ApplyDelta(stockRepo, movRepo, alertRepo, inventory.ApplyDeltaInput{
				ProductID:     item.ProductID,
				VariantID:     item.VariantID,
				Type:          entity.MovementTypeSale,
				Quantity:      item.Quantity,
				MinStockLevel: product.MinStockLevel,
				ReferenceID:   sale.ID,
				ReferenceType: "sale",
				CreatedBy:     userID,
				Now:           now,
			}); err != nil {
				return err
			}
			items = append(items, saleItem)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toSaleResponse(sale, items), nil
}

// GetSale obtiene una venta por ID con sus items.
func (uc *CreateSaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

func stockKey(productID, variantID string) string {
	return productID + "|" + variantID
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:             sale.ID,
		SaleNumber:     sale.SaleNumber,
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		TaxAmount:      sale.TaxAmount,
		Total:          sale.Total,
		PaymentMethod:  sale.PaymentMethod,
		Status:         sale.Status,
		CustomerName:   sale.CustomerName,
		Notes:          sale.Notes,
		CreatedBy:      sale.CreatedBy,
		CreatedAt:      sale.CreatedAt,
		Items:          make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Subtotal:  it.Subtotal,
			Refunded:  it.Refunded,
		})
	}
	return resp
}
