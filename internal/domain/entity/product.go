package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (SKU único, barcode opcional único).
// El stock NO vive aquí: se maneja por (producto, variante) en StockLine y solo
// se modifica a través del motor de inventario.
type Product struct {
	ID            string
	SKU           string
	Barcode       string // opcional; único si está presente
	Name          string
	Description   string
	CategoryID    string
	Price         decimal.Decimal // precio de venta
	Cost          decimal.Decimal // costo de compra (opcional, >= 0)
	MinStockLevel int             // umbral de alerta de stock bajo
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time // soft delete
}
