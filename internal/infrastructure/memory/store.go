// Package memory implementa los puertos de persistencia en memoria, para
// desarrollo/demo sin PostgreSQL y para tests de los casos de uso. Las
// transacciones se serializan con un mutex y se simulan con snapshot/restore:
// si fn falla, el estado vuelve exactamente al punto de partida.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// Ensure Store implements the tx runners.
var _ inventory.TxRunner = (*Store)(nil)
var _ sales.SalesTxRunner = (*Store)(nil)

// Store almacén en memoria. Los valores se guardan por copia; los métodos
// devuelven copias, nunca referencias al estado interno.
type Store struct {
	mu   sync.Mutex // protege el estado
	txMu sync.Mutex // serializa transacciones completas (read-modify-write)

	products   map[string]entity.Product
	stock      map[string]entity.StockLine // clave productID|variantID
	movements  []entity.StockMovement
	alerts     map[string]entity.LowStockAlert
	sales      map[string]entity.Sale
	saleItems  map[string][]entity.SaleItem // por saleID, en orden de inserción
	users      map[string]entity.User       // por ID
	categories map[string]entity.Category
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]entity.Product),
		stock:      make(map[string]entity.StockLine),
		alerts:     make(map[string]entity.LowStockAlert),
		sales:      make(map[string]entity.Sale),
		saleItems:  make(map[string][]entity.SaleItem),
		users:      make(map[string]entity.User),
		categories: make(map[string]entity.Category),
	}
}

func stockKey(productID, variantID string) string {
	return productID + "|" + variantID
}

type snapshot struct {
	products   map[string]entity.Product
	stock      map[string]entity.StockLine
	movements  []entity.StockMovement
	alerts     map[string]entity.LowStockAlert
	sales      map[string]entity.Sale
	saleItems  map[string][]entity.SaleItem
	users      map[string]entity.User
	categories map[string]entity.Category
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products:   make(map[string]entity.Product, len(s.products)),
		stock:      make(map[string]entity.StockLine, len(s.stock)),
		movements:  append([]entity.StockMovement(nil), s.movements...),
		alerts:     make(map[string]entity.LowStockAlert, len(s.alerts)),
		sales:      make(map[string]entity.Sale, len(s.sales)),
		saleItems:  make(map[string][]entity.SaleItem, len(s.saleItems)),
		users:      make(map[string]entity.User, len(s.users)),
		categories: make(map[string]entity.Category, len(s.categories)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for k, v := range s.alerts {
		snap.alerts[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.saleItems {
		snap.saleItems[k] = append([]entity.SaleItem(nil), v...)
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.categories {
		snap.categories[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.stock = snap.stock
	s.movements = snap.movements
	s.alerts = snap.alerts
	s.sales = snap.sales
	s.saleItems = snap.saleItems
	s.users = snap.users
	s.categories = snap.categories
}

// Run ejecuta fn como transacción: serializada contra otras transacciones y
// con rollback por snapshot si fn retorna error.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(NewStockRepo(s), NewMovementRepo(s), NewAlertRepo(s), NewProductRepo(s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunSales igual que Run pero incluye el repo de ventas.
func (s *Store) RunSales(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(NewStockRepo(s), NewMovementRepo(s), NewAlertRepo(s), NewProductRepo(s), NewSaleRepo(s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
