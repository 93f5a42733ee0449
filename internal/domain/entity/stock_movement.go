package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn         = "in"         // entrada
	MovementTypeOut        = "out"        // salida
	MovementTypeAdjustment = "adjustment" // ajuste absoluto
	MovementTypeSale       = "sale"       // venta POS
	MovementTypeReturn     = "return"     // devolución / reembolso
	MovementTypeDamaged    = "damaged"    // merma
)

// StockMovement es una entrada inmutable del libro de movimientos: explica
// exactamente un cambio de cantidad de un StockLine.
// Invariante: QuantityAfter = QuantityBefore + QuantityChange, y la secuencia
// ordenada de movimientos reproduce desde 0 la cantidad actual de la línea.
// QuantityChange es el delta efectivamente aplicado (no el solicitado): si una
// salida pide más de lo disponible, la cantidad se recorta a 0 y el movimiento
// registra solo lo que realmente salió.
type StockMovement struct {
	ID             string
	ProductID      string
	VariantID      string // "" = sin variante
	Type           string // in, out, adjustment, sale, return, damaged
	QuantityChange int    // delta con signo
	QuantityBefore int
	QuantityAfter  int
	ReferenceID    string // ej. ID de la venta
	ReferenceType  string // ej. "sale", "refund"
	Note           string
	CreatedBy      string // UserID
	CreatedAt      time.Time
}
