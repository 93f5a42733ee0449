package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)
var _ repository.StockMovementRepository = (*MovementRepo)(nil)
var _ repository.AlertRepository = (*AlertRepo)(nil)
var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.SaleRepository = (*SaleRepo)(nil)
var _ repository.UserRepository = (*UserRepo)(nil)
var _ repository.CategoryRepository = (*CategoryRepo)(nil)
var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// StockRepo implementa repository.StockRepository sobre el Store.
type StockRepo struct{ s *Store }

// NewStockRepo crea el repositorio de stock en memoria.
func NewStockRepo(s *Store) *StockRepo { return &StockRepo{s: s} }

func (r *StockRepo) Get(productID, variantID string) (*entity.StockLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	line, ok := r.s.stock[stockKey(productID, variantID)]
	if !ok {
		return nil, nil
	}
	cp := line
	return &cp, nil
}

// GetForUpdate en memoria equivale a Get: las transacciones ya se serializan
// completas, así que no hay carreras que bloquear fila a fila.
func (r *StockRepo) GetForUpdate(productID, variantID string) (*entity.StockLine, error) {
	return r.Get(productID, variantID)
}

func (r *StockRepo) Create(line *entity.StockLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := stockKey(line.ProductID, line.VariantID)
	if _, ok := r.s.stock[key]; ok {
		return domain.ErrDuplicate
	}
	r.s.stock[key] = *line
	return nil
}

func (r *StockRepo) Update(line *entity.StockLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := stockKey(line.ProductID, line.VariantID)
	if _, ok := r.s.stock[key]; !ok {
		return domain.ErrNotFound
	}
	r.s.stock[key] = *line
	return nil
}

// MovementRepo implementa repository.StockMovementRepository sobre el Store.
type MovementRepo struct{ s *Store }

// NewMovementRepo crea el repositorio de movimientos en memoria.
func NewMovementRepo(s *Store) *MovementRepo { return &MovementRepo{s: s} }

func (r *MovementRepo) Create(movement *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.movements {
		if r.s.movements[i].ID == id {
			cp := r.s.movements[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*entity.StockMovement
	// Los movimientos se insertan en orden cronológico; recorrer al revés
	// produce el orden descendente que expone List.
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if filter.ProductID != "" && m.ProductID != filter.ProductID {
			continue
		}
		if filter.VariantID != nil && m.VariantID != *filter.VariantID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		cp := m
		matched = append(matched, &cp)
	}
	return paginate(matched, filter.Limit, filter.Offset), nil
}

// AlertRepo implementa repository.AlertRepository sobre el Store.
type AlertRepo struct{ s *Store }

// NewAlertRepo crea el repositorio de alertas en memoria.
func NewAlertRepo(s *Store) *AlertRepo { return &AlertRepo{s: s} }

func (r *AlertRepo) Create(alert *entity.LowStockAlert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.alerts {
		if a.Status == entity.AlertStatusActive &&
			a.ProductID == alert.ProductID && a.VariantID == alert.VariantID {
			return domain.ErrDuplicate
		}
	}
	r.s.alerts[alert.ID] = *alert
	return nil
}

func (r *AlertRepo) GetByID(id string) (*entity.LowStockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	alert, ok := r.s.alerts[id]
	if !ok {
		return nil, nil
	}
	cp := alert
	return &cp, nil
}

func (r *AlertRepo) GetActive(productID, variantID string) (*entity.LowStockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.alerts {
		if a.Status == entity.AlertStatusActive && a.ProductID == productID && a.VariantID == variantID {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AlertRepo) Update(alert *entity.LowStockAlert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.alerts[alert.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.alerts[alert.ID] = *alert
	return nil
}

func (r *AlertRepo) ListByStatus(status string, limit, offset int) ([]*entity.LowStockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*entity.LowStockAlert
	for _, a := range r.s.alerts {
		if a.Status != status {
			continue
		}
		cp := a
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, limit, offset), nil
}

// ProductRepo implementa repository.ProductRepository sobre el Store.
type ProductRepo struct{ s *Store }

// NewProductRepo crea el repositorio de productos en memoria.
func NewProductRepo(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, p := range r.s.products {
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
		if product.Barcode != "" && p.Barcode == product.Barcode {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku && p.DeletedAt == nil {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[product.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.ID == product.ID || p.DeletedAt != nil {
			continue
		}
		if p.SKU == product.SKU {
			return domain.ErrDuplicate
		}
		if product.Barcode != "" && p.Barcode == product.Barcode {
			return domain.ErrDuplicate
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *ProductRepo) List(activeOnly bool, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*entity.Product
	for _, p := range r.s.products {
		if p.DeletedAt != nil {
			continue
		}
		if activeOnly && !p.Active {
			continue
		}
		cp := p
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, limit, offset), nil
}

func (r *ProductRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.DeletedAt != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	p.Active = false
	p.UpdatedAt = now
	r.s.products[id] = p
	return nil
}

// SaleRepo implementa repository.SaleRepository sobre el Store.
type SaleRepo struct{ s *Store }

// NewSaleRepo crea el repositorio de ventas en memoria.
func NewSaleRepo(s *Store) *SaleRepo { return &SaleRepo{s: s} }

func (r *SaleRepo) Create(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.sales {
		if existing.SaleNumber == sale.SaleNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.saleItems[item.SaleID] = append(r.s.saleItems[item.SaleID], *item)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := sale
	return &cp, nil
}

func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.GetByID(id)
}

func (r *SaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.saleItems[saleID]
	out := make([]*entity.SaleItem, 0, len(items))
	for _, it := range items {
		cp := it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SaleRepo) MarkItemRefunded(itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for saleID, items := range r.s.saleItems {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Refunded = true
				r.s.saleItems[saleID] = items
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r *SaleRepo) Update(sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[sale.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.sales[sale.ID] = *sale
	return nil
}

func (r *SaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]*entity.Sale, 0, len(r.s.sales))
	for _, sale := range r.s.sales {
		cp := sale
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, limit, offset), nil
}

// UserRepo implementa repository.UserRepository sobre el Store.
type UserRepo struct{ s *Store }

// NewUserRepo crea el repositorio de usuarios en memoria.
func NewUserRepo(s *Store) *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) List(limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := u
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Email < matched[j].Email })
	return paginate(matched, limit, offset), nil
}

// CategoryRepo implementa repository.CategoryRepository sobre el Store.
type CategoryRepo struct{ s *Store }

// NewCategoryRepo crea el repositorio de categorías en memoria.
func NewCategoryRepo(s *Store) *CategoryRepo { return &CategoryRepo{s: s} }

func (r *CategoryRepo) Create(category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == category.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (r *CategoryRepo) Update(category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepo) List(limit, offset int) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := c
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, limit, offset), nil
}

func (r *CategoryRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

// DashboardRepo implementa repository.DashboardRepository sobre el Store.
type DashboardRepo struct{ s *Store }

// NewDashboardRepo crea el repositorio de métricas en memoria.
func NewDashboardRepo(s *Store) *DashboardRepo { return &DashboardRepo{s: s} }

func (r *DashboardRepo) Summary(day time.Time) (*entity.DashboardSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	summary := &entity.DashboardSummary{RevenueToday: decimal.Zero}
	for _, p := range r.s.products {
		if p.DeletedAt == nil && p.Active {
			summary.TotalProducts++
		}
	}
	for _, a := range r.s.alerts {
		if a.Status == entity.AlertStatusActive {
			summary.ActiveAlerts++
		}
	}
	for _, sale := range r.s.sales {
		if sale.CreatedAt.Before(start) {
			continue
		}
		summary.SalesToday++
		if sale.Status != entity.SaleStatusRefunded {
			summary.RevenueToday = summary.RevenueToday.Add(sale.Total)
		}
	}
	return summary, nil
}

func paginate[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return []*T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
