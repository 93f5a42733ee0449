package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and sales.SalesTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.SalesTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Las fallas de serialización y los deadlocks se traducen a ErrConflict para
// que el caller pueda reintentar.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	alertRepo := NewAlertRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(stockRepo, movRepo, alertRepo, productRepo); err != nil {
		return translateTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunSales inicia una transacción con repos de inventario y ventas (para CreateSale y Refund).
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stockRepo := NewStockRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	alertRepo := NewAlertRepository(tx)
	productRepo := NewProductRepository(tx)
	saleRepo := NewSaleRepository(tx)

	if err := fn(stockRepo, movRepo, alertRepo, productRepo, saleRepo); err != nil {
		return translateTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func translateTxError(err error) error {
	if isSerializationFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
