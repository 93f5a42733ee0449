package sales

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ReceiptUseCase genera el recibo PDF de una venta.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, generator ReceiptPDFGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, productRepo: productRepo, generator: generator}
}

// GetReceiptPDF devuelve los bytes del recibo de la venta.
func (uc *ReceiptUseCase) GetReceiptPDF(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(saleID)
	if err != nil {
		return nil, err
	}
	productNames := make(map[string]string, len(items))
	for _, it := range items {
		if _, ok := productNames[it.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		name := it.ProductID
		if product != nil {
			name = product.Name
		}
		productNames[it.ProductID] = name
	}
	return uc.generator.GenerateReceiptPDF(ctx, sale, items, productNames)
}
