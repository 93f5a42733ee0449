package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de stock:
// la función hace Commit solo si fn retorna nil, Rollback en cualquier otro
// camino de salida.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.AlertRepository,
		productRepo repository.ProductRepository,
	) error) error
}
