package repository

import "github.com/jhoicas/pos-ledger/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(activeOnly bool, limit, offset int) ([]*entity.Product, error)
	// Delete hace soft delete (deleted_at) y desactiva el producto.
	Delete(id string) error
}
