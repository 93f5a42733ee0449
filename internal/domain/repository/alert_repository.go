package repository

import "github.com/jhoicas/pos-ledger/internal/domain/entity"

// AlertRepository define el puerto de persistencia para alertas de stock bajo.
type AlertRepository interface {
	Create(alert *entity.LowStockAlert) error
	GetByID(id string) (*entity.LowStockAlert, error)
	// GetActive devuelve la alerta activa para la clave (producto, variante)
	// o nil si no existe. A lo sumo hay una.
	GetActive(productID, variantID string) (*entity.LowStockAlert, error)
	Update(alert *entity.LowStockAlert) error
	ListByStatus(status string, limit, offset int) ([]*entity.LowStockAlert, error)
}
