package repository

import "github.com/jhoicas/pos-ledger/internal/domain/entity"

// SaleRepository define el puerto de persistencia para ventas y sus items.
// Los items se crean junto con la cabecera; después solo cambia su flag
// refunded (vía MarkItemRefunded), nunca su contenido.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para reembolsos.
	GetForUpdate(id string) (*entity.Sale, error)
	GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error)
	// MarkItemRefunded marca un item como ya devuelto al stock.
	// ErrNotFound si el item no existe.
	MarkItemRefunded(itemID string) error
	// Update actualiza status, notes y updated_at de la cabecera.
	Update(sale *entity.Sale) error
	List(limit, offset int) ([]*entity.Sale, error)
}
