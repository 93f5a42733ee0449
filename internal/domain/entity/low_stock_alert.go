package entity

import "time"

// Estados de una alerta de stock bajo.
const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged" // acción manual de staff; terminal
	AlertStatusResolved     = "resolved"     // resolución automática; terminal
)

// LowStockAlert marca que un StockLine cayó a o por debajo de su mínimo.
// Invariante: a lo sumo una alerta "active" por (ProductID, VariantID).
// CurrentStock y MinStockLevel son el snapshot del primer cruce del umbral y
// no se actualizan después; si el stock vuelve a caer tras resolverse o
// reconocerse la alerta, se crea una alerta nueva.
type LowStockAlert struct {
	ID             string
	ProductID      string
	VariantID      string // "" = sin variante
	CurrentStock   int
	MinStockLevel  int
	Status         string
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
	CreatedAt      time.Time
}
