package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// variant_id es TEXT NOT NULL con '' para "sin variante": la clave compuesta se
// compara por igualdad simple, sin trucos de comparación con NULL.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, variant_id, quantity, reserved, updated_at, updated_by`

// Get obtiene la línea de stock o nil si no existe.
func (r *StockRepo) Get(productID, variantID string) (*entity.StockLine, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND variant_id = $2`
	return r.scanOne(query, productID, variantID, "get stock")
}

// GetForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(productID, variantID string) (*entity.StockLine, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND variant_id = $2
		FOR UPDATE`
	return r.scanOne(query, productID, variantID, "get stock for update")
}

func (r *StockRepo) scanOne(query, productID, variantID, op string) (*entity.StockLine, error) {
	var s entity.StockLine
	var updatedBy *string
	err := r.q.QueryRow(context.Background(), query, productID, variantID).Scan(
		&s.ProductID, &s.VariantID, &s.Quantity, &s.Reserved, &s.UpdatedAt, &updatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updatedBy != nil {
		s.UpdatedBy = *updatedBy
	}
	return &s, nil
}

// Create inserta una línea nueva (al crear el producto o variante).
func (r *StockRepo) Create(line *entity.StockLine) error {
	query := `
		INSERT INTO stock (product_id, variant_id, quantity, reserved, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ProductID, line.VariantID, line.Quantity, line.Reserved, line.UpdatedAt, nullable(line.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Update actualiza cantidad, reservado y atribución de la línea.
func (r *StockRepo) Update(line *entity.StockLine) error {
	query := `
		UPDATE stock
		SET quantity = $3, reserved = $4, updated_at = $5, updated_by = $6
		WHERE product_id = $1 AND variant_id = $2`
	tag, err := r.q.Exec(context.Background(), query,
		line.ProductID, line.VariantID, line.Quantity, line.Reserved, line.UpdatedAt, nullable(line.UpdatedBy),
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock: fila no encontrada")
	}
	return nil
}

// nullable convierte string vacío a NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
