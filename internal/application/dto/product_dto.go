package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	MinStockLevel int             `json:"min_stock_level"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Barcode       *string          `json:"barcode,omitempty"`
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
	MinStockLevel *int             `json:"min_stock_level,omitempty"`
	Active        *bool            `json:"active,omitempty"`
}

// ProductResponse representación de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Barcode       string          `json:"barcode,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    string          `json:"category_id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	MinStockLevel int             `json:"min_stock_level"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CategoryRequest body para crear/actualizar una categoría.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse representación de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
