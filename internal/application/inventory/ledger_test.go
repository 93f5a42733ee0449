package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID = "00000000-0000-0000-0000-00000000000a"
	testUserID    = "00000000-0000-0000-0000-000000000001"
)

type ledgerFixture struct {
	store     *memory.Store
	stockRepo *memory.StockRepo
	movRepo   *memory.MovementRepo
	alertRepo *memory.AlertRepo
}

// newLedgerFixture arma un almacén en memoria con una línea de stock sembrada.
func newLedgerFixture(t *testing.T, initialQty int) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	f := &ledgerFixture{
		store:     store,
		stockRepo: memory.NewStockRepo(store),
		movRepo:   memory.NewMovementRepo(store),
		alertRepo: memory.NewAlertRepo(store),
	}
	require.NoError(t, f.stockRepo.Create(&entity.StockLine{
		ProductID: testProductID,
		Quantity:  initialQty,
		UpdatedAt: time.Now(),
	}))
	return f
}

func (f *ledgerFixture) apply(t *testing.T, movType string, qty, minLevel int) (*entity.StockLine, *entity.StockMovement) {
	t.Helper()
	line, mov, err := inventory.ApplyDelta(f.stockRepo, f.movRepo, f.alertRepo, inventory.ApplyDeltaInput{
		ProductID:     testProductID,
		Type:          movType,
		Quantity:      qty,
		MinStockLevel: minLevel,
		CreatedBy:     testUserID,
		Now:           time.Now(),
	})
	require.NoError(t, err)
	return line, mov
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ApplyDelta
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyDelta_EntradaSumaCantidad(t *testing.T) {
	f := newLedgerFixture(t, 10)

	line, mov := f.apply(t, entity.MovementTypeIn, 5, 0)

	assert.Equal(t, 15, line.Quantity)
	assert.Equal(t, 5, mov.QuantityChange)
	assert.Equal(t, 10, mov.QuantityBefore)
	assert.Equal(t, 15, mov.QuantityAfter)
}

func TestApplyDelta_SalidaMayorQueDisponibleRecortaACero(t *testing.T) {
	f := newLedgerFixture(t, 3)

	line, mov := f.apply(t, entity.MovementTypeOut, 10, 0)

	assert.Equal(t, 0, line.Quantity, "la cantidad nunca queda negativa")
	assert.Equal(t, -3, mov.QuantityChange, "el movimiento registra el delta aplicado, no el solicitado")
	assert.Equal(t, 3, mov.QuantityBefore)
	assert.Equal(t, 0, mov.QuantityAfter)
}

func TestApplyDelta_AjusteAsignaValorAbsoluto(t *testing.T) {
	f := newLedgerFixture(t, 7)

	line, mov := f.apply(t, entity.MovementTypeAdjustment, 20, 0)

	assert.Equal(t, 20, line.Quantity)
	assert.Equal(t, 13, mov.QuantityChange)
}

func TestApplyDelta_AjusteNegativoRechazado(t *testing.T) {
	f := newLedgerFixture(t, 7)

	_, _, err := inventory.ApplyDelta(f.stockRepo, f.movRepo, f.alertRepo, inventory.ApplyDeltaInput{
		ProductID: testProductID,
		Type:      entity.MovementTypeAdjustment,
		Quantity:  -1,
		Now:       time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyDelta_TipoDesconocidoRechazado(t *testing.T) {
	f := newLedgerFixture(t, 7)

	_, _, err := inventory.ApplyDelta(f.stockRepo, f.movRepo, f.alertRepo, inventory.ApplyDeltaInput{
		ProductID: testProductID,
		Type:      "transfer",
		Quantity:  1,
		Now:       time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyDelta_LineaInexistenteRetornaNotFound(t *testing.T) {
	f := newLedgerFixture(t, 7)

	_, _, err := inventory.ApplyDelta(f.stockRepo, f.movRepo, f.alertRepo, inventory.ApplyDeltaInput{
		ProductID: "otro-producto",
		Type:      entity.MovementTypeIn,
		Quantity:  1,
		Now:       time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El libro de movimientos debe poder reconstruir la cantidad actual desde cero:
// para cada movimiento after = before + change, y el before de cada movimiento
// coincide con el after del anterior.
func TestApplyDelta_LibroReproduceLaCantidadActual(t *testing.T) {
	f := newLedgerFixture(t, 0)

	f.apply(t, entity.MovementTypeIn, 50, 0)
	f.apply(t, entity.MovementTypeSale, 12, 0)
	f.apply(t, entity.MovementTypeAdjustment, 30, 0)
	f.apply(t, entity.MovementTypeDamaged, 5, 0)
	f.apply(t, entity.MovementTypeReturn, 2, 0)

	movements, err := f.movRepo.List(repository.MovementFilter{ProductID: testProductID, Limit: 100})
	require.NoError(t, err)
	require.Len(t, movements, 5)

	// List devuelve descendente; recorrer al revés = orden cronológico.
	replayed := 0
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		assert.Equal(t, replayed, m.QuantityBefore, "cada movimiento parte de donde quedó el anterior")
		assert.Equal(t, m.QuantityBefore+m.QuantityChange, m.QuantityAfter)
		replayed = m.QuantityAfter
	}

	line, err := f.stockRepo.Get(testProductID, "")
	require.NoError(t, err)
	assert.Equal(t, replayed, line.Quantity, "el replay del libro reproduce la cantidad viva")
	assert.Equal(t, 27, line.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ReconcileAlert
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcileAlert_CruceDelUmbralCreaUnaSolaAlerta(t *testing.T) {
	f := newLedgerFixture(t, 10)

	// 10 -> 5 con mínimo 5: cruza el umbral (<=), crea alerta.
	f.apply(t, entity.MovementTypeOut, 5, 5)
	alert, err := f.alertRepo.GetActive(testProductID, "")
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, 5, alert.CurrentStock, "el snapshot es el del primer cruce")
	assert.Equal(t, 5, alert.MinStockLevel)

	// Sigue bajando: la alerta activa existente no se toca ni se duplica.
	f.apply(t, entity.MovementTypeOut, 2, 5)
	again, err := f.alertRepo.GetActive(testProductID, "")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, alert.ID, again.ID)
	assert.Equal(t, 5, again.CurrentStock, "el snapshot no se actualiza en caídas posteriores")
}

func TestReconcileAlert_SubirSobreElUmbralResuelveAutomaticamente(t *testing.T) {
	f := newLedgerFixture(t, 10)

	f.apply(t, entity.MovementTypeOut, 6, 5) // 4 <= 5: alerta
	alert, err := f.alertRepo.GetActive(testProductID, "")
	require.NoError(t, err)
	require.NotNil(t, alert)

	f.apply(t, entity.MovementTypeIn, 20, 5) // 24 > 5: se resuelve
	gone, err := f.alertRepo.GetActive(testProductID, "")
	require.NoError(t, err)
	assert.Nil(t, gone)

	resolved, err := f.alertRepo.GetByID(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)
	assert.Empty(t, resolved.AcknowledgedBy, "la resolución automática no tiene acknowledger")
}

func TestReconcileAlert_NuevaCaidaTrasResolverCreaAlertaNueva(t *testing.T) {
	f := newLedgerFixture(t, 10)

	f.apply(t, entity.MovementTypeOut, 6, 5)
	first, err := f.alertRepo.GetActive(testProductID, "")
	require.NoError(t, err)
	require.NotNil(t, first)

	f.apply(t, entity.MovementTypeIn, 20, 5)
	f.apply(t, entity.MovementTypeOut, 22, 5) // 2 <= 5: alerta nueva

	second, err := f.alertRepo.GetActive(testProductID, "")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, second.CurrentStock)
}
