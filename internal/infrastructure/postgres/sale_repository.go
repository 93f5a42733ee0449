package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, sale_number, subtotal, discount_amount, tax_amount, total, payment_method, status, customer_name, notes, created_by, created_at, updated_at`

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.SaleNumber, s.Subtotal, s.DiscountAmount, s.TaxAmount, s.Total,
		s.PaymentMethod, s.Status, nullable(s.CustomerName), nullable(s.Notes),
		nullable(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la venta.
func (r *SaleRepo) CreateItem(it *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, variant_id, quantity, unit_price, discount, subtotal, refunded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.SaleID, it.ProductID, it.VariantID, it.Quantity, it.UnitPrice, it.Discount, it.Subtotal, it.Refunded,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID o nil.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return r.scanOne(query, id, "get sale")
}

// GetForUpdate obtiene la venta y bloquea la fila (SELECT FOR UPDATE).
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id, "get sale for update")
}

func (r *SaleRepo) scanOne(query, id, op string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// GetItemsBySaleID devuelve las líneas de una venta en orden de inserción.
func (r *SaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, variant_id, quantity, unit_price, discount, subtotal, refunded
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.VariantID,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.Subtotal, &it.Refunded); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// MarkItemRefunded marca la línea como ya devuelta al stock.
func (r *SaleRepo) MarkItemRefunded(itemID string) error {
	tag, err := r.q.Exec(context.Background(), `UPDATE sale_items SET refunded = TRUE WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("mark sale item refunded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update actualiza status, notes y updated_at de la cabecera.
func (r *SaleRepo) Update(s *entity.Sale) error {
	query := `UPDATE sales SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, s.ID, s.Status, nullable(s.Notes), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// List lista ventas, las más recientes primero.
func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerName, notes, createdBy *string
	err := row.Scan(
		&s.ID, &s.SaleNumber, &s.Subtotal, &s.DiscountAmount, &s.TaxAmount, &s.Total,
		&s.PaymentMethod, &s.Status, &customerName, &notes, &createdBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CustomerName = deref(customerName)
	s.Notes = deref(notes)
	s.CreatedBy = deref(createdBy)
	return &s, nil
}
