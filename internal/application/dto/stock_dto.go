package dto

import "time"

// AdjustStockRequest body para POST /api/stock/adjust.
// Para type in/out, quantity es la magnitud (>= 1); para adjustment es el
// valor absoluto al que se fija la línea (>= 0).
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Type      string `json:"type"` // in, out, adjustment
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// BulkAdjustItemRequest un item de un ajuste masivo.
type BulkAdjustItemRequest struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
}

// BulkAdjustRequest body para POST /api/stock/bulk-adjust.
type BulkAdjustRequest struct {
	Items []BulkAdjustItemRequest `json:"items"`
	Note  string                  `json:"note,omitempty"`
}

// StockLineResponse cantidad actual de una línea (producto, variante).
type StockLineResponse struct {
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Quantity  int       `json:"quantity"`
	Reserved  int       `json:"reserved"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// MovementResponse una entrada del libro de movimientos.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	VariantID      string    `json:"variant_id,omitempty"`
	Type           string    `json:"type"`
	QuantityChange int       `json:"quantity_change"`
	QuantityBefore int       `json:"quantity_before"`
	QuantityAfter  int       `json:"quantity_after"`
	ReferenceID    string    `json:"reference_id,omitempty"`
	ReferenceType  string    `json:"reference_type,omitempty"`
	Note           string    `json:"note,omitempty"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AdjustStockResponse resultado de un ajuste individual.
type AdjustStockResponse struct {
	Stock    StockLineResponse `json:"stock"`
	Movement MovementResponse  `json:"movement"`
}

// BulkAdjustItemResult resultado por item de un ajuste masivo.
type BulkAdjustItemResult struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	NewQuantity int    `json:"new_quantity,omitempty"`
}

// BulkAdjustResponse resultado de un ajuste masivo con conteos.
type BulkAdjustResponse struct {
	Total      int                    `json:"total"`
	Successful int                    `json:"successful"`
	Failed     int                    `json:"failed"`
	Results    []BulkAdjustItemResult `json:"results"`
}

// AlertResponse una alerta de stock bajo.
type AlertResponse struct {
	ID             string     `json:"id"`
	ProductID      string     `json:"product_id"`
	VariantID      string     `json:"variant_id,omitempty"`
	CurrentStock   int        `json:"current_stock"`
	MinStockLevel  int        `json:"min_stock_level"`
	Status         string     `json:"status"`
	AcknowledgedBy string     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
