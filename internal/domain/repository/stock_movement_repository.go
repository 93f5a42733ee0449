package repository

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// MovementFilter es el predicado estructurado para listar movimientos.
// Los filtros se arman como valores tipados, nunca como fragmentos de SQL.
type MovementFilter struct {
	ProductID string
	VariantID *string // nil = todas las variantes; "" = solo sin variante
	Type      string  // vacío = todos los tipos
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto de persistencia para el libro de
// movimientos (append-only: solo Create y lecturas).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// List devuelve movimientos ordenados por fecha de creación descendente.
	List(filter MovementFilter) ([]*entity.StockMovement, error)
}
