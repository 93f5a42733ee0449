package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest una línea de venta. Si unit_price viene en 0 se usa el
// precio actual del producto.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Items          []SaleItemRequest `json:"items"`
	PaymentMethod  string            `json:"payment_method"` // cash, card, transfer
	CustomerName   string            `json:"customer_name,omitempty"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	Notes          string            `json:"notes,omitempty"`
}

// SaleItemResponse una línea de una venta persistida.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Refunded  bool            `json:"refunded"`
}

// SaleResponse una venta con sus items.
type SaleResponse struct {
	ID             string             `json:"id"`
	SaleNumber     string             `json:"sale_number"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	Total          decimal.Decimal    `json:"total"`
	PaymentMethod  string             `json:"payment_method"`
	Status         string             `json:"status"`
	CustomerName   string             `json:"customer_name,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	CreatedBy      string             `json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	Items          []SaleItemResponse `json:"items"`
}

// RefundRequest body para POST /api/sales/:id/refund.
// ItemIDs vacío = reembolso de todos los items pendientes; si trae ids,
// reembolso parcial de esos items (los ya reembolsados se rechazan).
type RefundRequest struct {
	Reason  string   `json:"reason,omitempty"`
	ItemIDs []string `json:"item_ids,omitempty"`
}

// RefundResponse resultado de un reembolso.
type RefundResponse struct {
	SaleID         string `json:"sale_id"`
	Status         string `json:"status"` // refunded o completed (parcial)
	RefundedItems  int    `json:"refunded_items"`
	RestockedUnits int    `json:"restocked_units"`
}
