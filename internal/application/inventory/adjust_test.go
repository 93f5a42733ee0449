package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
)

type adjustFixture struct {
	store *memory.Store
	uc    *inventory.AdjustStockUseCase
}

// newAdjustFixture arma el caso de uso sobre un almacén en memoria.
func newAdjustFixture(t *testing.T) *adjustFixture {
	t.Helper()
	store := memory.NewStore()
	return &adjustFixture{
		store: store,
		uc:    inventory.NewAdjustStockUseCase(store, memory.NewProductRepo(store)),
	}
}

// seedProduct crea un producto activo con su línea de stock aprovisionada.
func (f *adjustFixture) seedProduct(t *testing.T, id, sku string, qty, minLevel int, active bool) {
	t.Helper()
	now := time.Now()
	require.NoError(t, memory.NewProductRepo(f.store).Create(&entity.Product{
		ID:            id,
		SKU:           sku,
		Name:          "Producto " + sku,
		Price:         decimal.NewFromInt(100),
		MinStockLevel: minLevel,
		Active:        active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
	require.NoError(t, memory.NewStockRepo(f.store).Create(&entity.StockLine{
		ProductID: id,
		Quantity:  qty,
		UpdatedAt: now,
	}))
}

func TestAdjust_EntradaActualizaStockYLibro(t *testing.T) {
	f := newAdjustFixture(t)
	f.seedProduct(t, testProductID, "SKU-1", 10, 0, true)

	resp, err := f.uc.Adjust(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: testProductID,
		Type:      entity.MovementTypeIn,
		Quantity:  5,
		Note:      "reposición semanal",
	})
	require.NoError(t, err)

	assert.Equal(t, 15, resp.Stock.Quantity)
	assert.Equal(t, entity.MovementTypeIn, resp.Movement.Type)
	assert.Equal(t, 5, resp.Movement.QuantityChange)
	assert.Equal(t, "reposición semanal", resp.Movement.Note)
	assert.Equal(t, testUserID, resp.Movement.CreatedBy)
}

func TestAdjust_TiposReservadosAlMotorRechazados(t *testing.T) {
	f := newAdjustFixture(t)
	f.seedProduct(t, testProductID, "SKU-1", 10, 0, true)

	// sale, return y damaged solo se registran vía ventas/reembolsos, nunca
	// como ajuste manual.
	for _, movType := range []string{entity.MovementTypeSale, entity.MovementTypeReturn, entity.MovementTypeDamaged} {
		_, err := f.uc.Adjust(context.Background(), testUserID, dto.AdjustStockRequest{
			ProductID: testProductID,
			Type:      movType,
			Quantity:  1,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, movType)
	}
}

func TestAdjust_CantidadInvalidaRechazada(t *testing.T) {
	f := newAdjustFixture(t)
	f.seedProduct(t, testProductID, "SKU-1", 10, 0, true)

	_, err := f.uc.Adjust(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: testProductID,
		Type:      entity.MovementTypeOut,
		Quantity:  0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "in/out requieren cantidad >= 1")

	_, err = f.uc.Adjust(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: testProductID,
		Type:      entity.MovementTypeAdjustment,
		Quantity:  0,
	})
	assert.NoError(t, err, "adjustment acepta 0 (fijar la línea en cero)")
}

func TestAdjust_ProductoInactivoRetornaNotFound(t *testing.T) {
	f := newAdjustFixture(t)
	f.seedProduct(t, testProductID, "SKU-1", 10, 0, false)

	_, err := f.uc.Adjust(context.Background(), testUserID, dto.AdjustStockRequest{
		ProductID: testProductID,
		Type:      entity.MovementTypeIn,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBulkAdjust_ItemsInvalidosNoAbortanElLote(t *testing.T) {
	f := newAdjustFixture(t)
	f.seedProduct(t, "prod-ok", "SKU-OK", 10, 0, true)
	f.seedProduct(t, "prod-inactivo", "SKU-IN", 10, 0, false)

	resp, err := f.uc.BulkAdjust(context.Background(), testUserID, dto.BulkAdjustRequest{
		Items: []dto.BulkAdjustItemRequest{
			{ProductID: "prod-ok", Type: entity.MovementTypeIn, Quantity: 5},
			{ProductID: "prod-inactivo", Type: entity.MovementTypeIn, Quantity: 5},
			{ProductID: "prod-fantasma", Type: entity.MovementTypeIn, Quantity: 5},
			{ProductID: "prod-ok", Type: "transfer", Quantity: 5},
			{ProductID: "prod-ok", Type: entity.MovementTypeAdjustment, Quantity: 40},
		},
		Note: "conteo físico",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Total)
	assert.Equal(t, 2, resp.Successful)
	assert.Equal(t, 3, resp.Failed)
	require.Len(t, resp.Results, 5)

	assert.True(t, resp.Results[0].Success)
	assert.Equal(t, 15, resp.Results[0].NewQuantity)
	assert.False(t, resp.Results[1].Success)
	assert.Equal(t, "producto no encontrado o inactivo", resp.Results[1].Error)
	assert.False(t, resp.Results[2].Success)
	assert.False(t, resp.Results[3].Success)
	assert.Equal(t, "tipo o cantidad inválidos", resp.Results[3].Error)
	assert.True(t, resp.Results[4].Success)
	assert.Equal(t, 40, resp.Results[4].NewQuantity)

	// Los items exitosos quedaron aplicados; los fallidos no tocaron nada.
	line, err := memory.NewStockRepo(f.store).Get("prod-ok", "")
	require.NoError(t, err)
	assert.Equal(t, 40, line.Quantity)
	inactiveLine, err := memory.NewStockRepo(f.store).Get("prod-inactivo", "")
	require.NoError(t, err)
	assert.Equal(t, 10, inactiveLine.Quantity)

	movements, err := memory.NewMovementRepo(f.store).List(repository.MovementFilter{ProductID: "prod-ok", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, movements, 2, "solo los items exitosos escriben en el libro")
}

func TestBulkAdjust_SinItemsRechazado(t *testing.T) {
	f := newAdjustFixture(t)

	_, err := f.uc.BulkAdjust(context.Background(), testUserID, dto.BulkAdjustRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
