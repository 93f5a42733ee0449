package entity

import "time"

// StockLine representa la cantidad actual de un producto (y variante opcional).
// La clave compuesta es (ProductID, VariantID); VariantID vacío significa
// "sin variante" y se almacena como string vacío, nunca como NULL.
// Invariante: Quantity >= 0 siempre. Solo el motor de inventario escribe aquí,
// porque cada cambio de cantidad debe ir acompañado de un StockMovement.
type StockLine struct {
	ProductID string
	VariantID string // "" = sin variante
	Quantity  int
	Reserved  int
	UpdatedAt time.Time
	UpdatedBy string // UserID del último actor
}
