package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testCashierID = "00000000-0000-0000-0000-000000000001"

type salesFixture struct {
	store  *memory.Store
	create *sales.CreateSaleUseCase
	refund *sales.RefundSaleUseCase
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	store := memory.NewStore()
	return &salesFixture{
		store: store,
		create: sales.NewCreateSaleUseCase(
			store,
			memory.NewProductRepo(store),
			memory.NewStockRepo(store),
			memory.NewSaleRepo(store),
		),
		refund: sales.NewRefundSaleUseCase(store),
	}
}

// seedProduct crea un producto activo con precio y stock dados; variantID
// vacío = línea sin variante.
func (f *salesFixture) seedProduct(t *testing.T, id, sku string, price int64, qty, minLevel int) {
	t.Helper()
	now := time.Now()
	require.NoError(t, memory.NewProductRepo(f.store).Create(&entity.Product{
		ID:            id,
		SKU:           sku,
		Name:          "Producto " + sku,
		Price:         decimal.NewFromInt(price),
		MinStockLevel: minLevel,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}))
	require.NoError(t, memory.NewStockRepo(f.store).Create(&entity.StockLine{
		ProductID: id,
		Quantity:  qty,
		UpdatedAt: now,
	}))
}

func (f *salesFixture) stockOf(t *testing.T, productID string) int {
	t.Helper()
	line, err := memory.NewStockRepo(f.store).Get(productID, "")
	require.NoError(t, err)
	require.NotNil(t, line)
	return line.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_DescuentaStockYRegistraMovimientos(t *testing.T) {
	f := newSalesFixture(t)
	f.seedProduct(t, "prod-a", "SKU-A", 100, 10, 0)
	f.seedProduct(t, "prod-b", "SKU-B", 50, 5, 0)

	resp, err := f.create.CreateSale(context.Background(), testCashierID, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCash,
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-a", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "prod-b", Quantity: 3, UnitPrice: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	assert.Contains(t, resp.SaleNumber, "POS-")
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(350)), "subtotal 2*100 + 3*50")
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(350)))
	require.Len(t, resp.Items, 2)

	assert.Equal(t, 8, f.stockOf(t, "prod-a"))
	assert.Equal(t, 2, f.stockOf(t, "prod-b"))

	movements, err := memory.NewMovementRepo(f.store).List(repository.MovementFilter{ProductID: "prod-a", Limit: 10})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeSale, movements[0].Type)
	assert.Equal(t, -2, movements[0].QuantityChange)
	assert.Equal(t, resp.ID, movements[0].ReferenceID)
	assert.Equal(t, "sale", movements[0].ReferenceType)
}

func TestCreateSale_TotalesConDescuentoEImpuesto(t *testing.T) {
	f := newSalesFixture(t)
	f.seedProduct(t, "prod-a", "SKU-A", 100, 10, 0)

	resp, err := f.create.CreateSale(context.Background(), testCashierID, dto.CreateSaleRequest{
		PaymentMethod:  entity.PaymentMethodCard,
		DiscountAmount: decimal.NewFromInt(30),
		TaxAmount:      decimal.NewFromInt(57),
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-a", Quantity: 3, UnitPrice: decimal.NewFromInt(100), Discount: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	// subtotal = 3*100 - 10 = 290; total = 290 - 30 + 57 = 317.
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(290)), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(317)), "total %s", resp.Total)
}

func TestCreateSale_PrecioCeroUsaElPrecioDelProducto(t *testing.T) {
	f := newSalesFixture(t)
	f.seedProduct(t, "prod-a", "SKU-A", 125, 10, 0)

	resp, err := f.create.CreateSale(context.Background(), testCashierID, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCash,
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-a", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.NewFromInt(125)))
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(250)))
}

func TestCreateSale_StockInsuficienteNoPersisteNada(t *testing.T) {
	f := newSalesFixture(t)
	f.seedProduct(t, "prod-a", "SKU-A", 100, 10, 0)
	f.seedProduct(t, "prod-b", "SKU-B", 50, 1, 0)

	_, err := f.create.CreateSale(context.Background(), testCashierID, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCash,
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-a", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "prod-b", Quantity: 5, UnitPrice: decimal.NewFromInt(50)},
		},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "prod-b", stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 5, stockErr.Required)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Todo o nada: la línea que sí alcanzaba tampoco se tocó y no quedó venta.
	assert.Equal(t, 10, f.stockOf(t, "prod-a"))
	salesList, err := memory.NewSaleRepo(f.store).List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, salesList)
	movements, err := memory.NewMovementRepo(f.store).List(repository.MovementFilter{ProductID: "prod-a", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

// Dos líneas del mismo producto compiten por el mismo stock: la validación
// agrega cantidades por (producto, variante).
func TestCreateSale_LineasDuplicadasSeAgreganAlValidar(t *testing.T) {
	f := newSalesFixture(t)
	f.seedProduct(t, "prod-a", "SKU-A", 100, 5, 0)

	_, err := f.create.CreateSale(context.Background(), testCashierID, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCash,
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-a", Quantity: 3, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "prod-a", Quantity: 3, UnitPrice: decimal.NewFromInt(100)},
		},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Required, "el requerido es el agregado de ambas líneas")
	assert.Equal(t, 5, f.stockOf(t, "prod-a"))
}

func TestCreateSale_ValidacionesDeEntrada(t *testing.T) {
	f := newSalesFixture(t)
	f.seedProduct(t, "prod-a", "SKU-A", 100, 10, 0)

	cases := []struct {
		name string
		in   dto.CreateSaleRequest
	}{
		{"sin items", dto.CreateSaleRequest{PaymentMethod: entity.PaymentMethodCash}},
		{"método de pago inválido", dto.CreateSaleRequest{
			PaymentMethod: "cheque",
			Items:         []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 1}},
		}},
		{"cantidad cero", dto.CreateSaleRequest{
			PaymentMethod: entity.PaymentMethodCash,
			Items:         []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 0}},
		}},
		{"descuento global negativo", dto.CreateSaleRequest{
			PaymentMethod:  entity.PaymentMethodCash,
			DiscountAmount: decimal.NewFromInt(-1),
			Items:          []dto.SaleItemRequest{{ProductID: "prod-a", Quantity: 1}},
		}},
	}
	for _, tc := range cases {
		_, err := f.create.CreateSale(context.Background(), testCashierID, tc.in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, tc.name)
	}
}

func TestCreateSale_VentaBajaStockYDisparaAlerta(t *testing.T) {
	f := newSalesFixture(t)
	f.seedProduct(t, "prod-a", "SKU-A", 100, 6, 5)

	_, err := f.create.CreateSale(context.Background(), testCashierID, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentMethodCash,
		Items: []dto.SaleItemRequest{
			{ProductID: "prod-a", Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)

	alert, err := memory.NewAlertRepo(f.store).GetActive("prod-a", "")
	require.NoError(t, err)
	require.NotNil(t, alert, "4 <= mínimo 5 debe dejar alerta activa")
	assert.Equal(t, 4, alert.CurrentStock)
}
