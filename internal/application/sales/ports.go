package sales

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye los
// repos de inventario y de ventas. Commit solo si fn retorna nil.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptPDFGenerator genera el recibo en PDF de una venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, items []*entity.SaleItem, productNames map[string]string) ([]byte, error)
}
