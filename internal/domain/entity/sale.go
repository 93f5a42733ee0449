package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
// pending está reservado para flujos de pago asíncronos (no usados aún);
// en el flujo normal la venta se crea directamente en completed.
// Un reembolso parcial deja la venta en completed con una nota; el total
// la pasa a refunded.
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusRefunded  = "refunded"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// Sale es la cabecera de una venta POS. Los items no cambian de contenido una
// vez creada la venta; lo único que un reembolso marca sobre ellos es el flag
// Refunded, que impide reembolsar el mismo item dos veces.
// Notes es un log de texto append-only (incluye anotaciones de reembolso).
type Sale struct {
	ID             string
	SaleNumber     string // único, generado (fecha + sufijo aleatorio)
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal // Subtotal - DiscountAmount + TaxAmount
	PaymentMethod  string
	Status         string
	CustomerName   string
	Notes          string
	CreatedBy      string // UserID del cajero
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleItem es una línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	VariantID string // "" = sin variante
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal // Quantity * UnitPrice - Discount
	Refunded  bool            // ya devuelto al stock; un item se reembolsa a lo sumo una vez
}
