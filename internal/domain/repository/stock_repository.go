package repository

import "github.com/jhoicas/pos-ledger/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar líneas de stock
// por (producto, variante). Usado dentro de transacciones para garantizar
// consistencia; el motor de inventario es el único escritor.
type StockRepository interface {
	// Get devuelve la línea o nil si no existe (las líneas se aprovisionan al
	// crear el producto, nunca perezosamente).
	Get(productID, variantID string) (*entity.StockLine, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, variantID string) (*entity.StockLine, error)
	Create(line *entity.StockLine) error
	Update(line *entity.StockLine) error
}
