package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ProductUseCase CRUD de productos. La creación aprovisiona la línea de stock
// en cantidad 0 dentro de la misma transacción: las líneas nunca se crean
// perezosamente y el motor de inventario asume que existen.
type ProductUseCase struct {
	txRunner    inventory.TxRunner
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo}
}

// Create crea el producto y su línea de stock (cantidad 0).
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.Price.IsNegative() || in.Cost.IsNegative() || in.MinStockLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Barcode:       in.Barcode,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		Price:         in.Price,
		Cost:          in.Cost,
		MinStockLevel: in.MinStockLevel,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.AlertRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		return stockRepo.Create(&entity.StockLine{
			ProductID: product.ID,
			VariantID: "",
			Quantity:  0,
			UpdatedAt: now,
			UpdatedBy: userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos.
func (uc *ProductUseCase) List(ctx context.Context, activeOnly bool, limit, offset int) ([]dto.ProductResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	products, err := uc.productRepo.List(activeOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// Update aplica cambios parciales al producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Cost = *in.Cost
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete hace soft delete del producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		Price:         p.Price,
		Cost:          p.Cost,
		MinStockLevel: p.MinStockLevel,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
