package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
// Un índice único parcial sobre (product_id, variant_id) WHERE status = 'active'
// respalda el invariante de una sola alerta activa por clave.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, product_id, variant_id, current_stock, min_stock_level, status, acknowledged_by, acknowledged_at, resolved_at, created_at`

// Create persiste una alerta nueva.
func (r *AlertRepo) Create(a *entity.LowStockAlert) error {
	query := `
		INSERT INTO low_stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.ProductID, a.VariantID, a.CurrentStock, a.MinStockLevel,
		a.Status, nullable(a.AcknowledgedBy), a.AcknowledgedAt, a.ResolvedAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID o nil.
func (r *AlertRepo) GetByID(id string) (*entity.LowStockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_stock_alerts WHERE id = $1`
	a, err := scanAlert(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// GetActive obtiene la alerta activa para (producto, variante) o nil.
func (r *AlertRepo) GetActive(productID, variantID string) (*entity.LowStockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM low_stock_alerts
		WHERE product_id = $1 AND variant_id = $2 AND status = 'active'`
	a, err := scanAlert(r.q.QueryRow(context.Background(), query, productID, variantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active alert: %w", err)
	}
	return a, nil
}

// Update actualiza el estado y los campos de resolución/reconocimiento.
func (r *AlertRepo) Update(a *entity.LowStockAlert) error {
	query := `
		UPDATE low_stock_alerts
		SET status = $2, acknowledged_by = $3, acknowledged_at = $4, resolved_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Status, nullable(a.AcknowledgedBy), a.AcknowledgedAt, a.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// ListByStatus lista alertas por estado, las más recientes primero.
func (r *AlertRepo) ListByStatus(status string, limit, offset int) ([]*entity.LowStockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM low_stock_alerts WHERE status = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.LowStockAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.LowStockAlert, error) {
	var a entity.LowStockAlert
	var ackBy *string
	err := row.Scan(
		&a.ID, &a.ProductID, &a.VariantID, &a.CurrentStock, &a.MinStockLevel,
		&a.Status, &ackBy, &a.AcknowledgedAt, &a.ResolvedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.AcknowledgedBy = deref(ackBy)
	return &a, nil
}
