package inventory_test

import (
	"context"
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

func newQueryFixture(t *testing.T) (*memory.Store, *inventory.StockQueryUseCase) {
	t.Helper()
	store := memory.NewStore()
	uc := inventory.NewStockQueryUseCase(
		memory.NewStockRepo(store),
		memory.NewMovementRepo(store),
		memory.NewAlertRepo(store),
	)
	return store, uc
}

func TestGetStockLine_InexistenteRetornaNotFound(t *testing.T) {
	_, uc := newQueryFixture(t)

	_, err := uc.GetStockLine(context.Background(), "nope", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMovements_RequiereProductID(t *testing.T) {
	_, uc := newQueryFixture(t)

	_, err := uc.ListMovements(context.Background(), repository.MovementFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_FiltraPorTipoYVariante(t *testing.T) {
	store, uc := newQueryFixture(t)
	movRepo := memory.NewMovementRepo(store)
	now := time.Now()
	seed := []entity.StockMovement{
		{ID: "m1", ProductID: testProductID, VariantID: "", Type: entity.MovementTypeIn, CreatedAt: now},
		{ID: "m2", ProductID: testProductID, VariantID: "rojo", Type: entity.MovementTypeSale, CreatedAt: now.Add(time.Second)},
		{ID: "m3", ProductID: testProductID, VariantID: "rojo", Type: entity.MovementTypeIn, CreatedAt: now.Add(2 * time.Second)},
		{ID: "m4", ProductID: "otro", VariantID: "", Type: entity.MovementTypeIn, CreatedAt: now},
	}
	for i := range seed {
		require.NoError(t, movRepo.Create(&seed[i]))
	}

	variant := "rojo"
	out, err := uc.ListMovements(context.Background(), repository.MovementFilter{
		ProductID: testProductID,
		VariantID: &variant,
		Type:      entity.MovementTypeIn,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "m3", out[0].ID)

	// Sin filtro de variante: todas las variantes del producto, descendente.
	all, err := uc.ListMovements(context.Background(), repository.MovementFilter{ProductID: testProductID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m3", all[0].ID)
}

func TestListAlerts_EstadoInvalidoRechazado(t *testing.T) {
	_, uc := newQueryFixture(t)

	_, err := uc.ListAlerts(context.Background(), "abierta", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAcknowledgeAlert_SoloAlertasActivas(t *testing.T) {
	store, uc := newQueryFixture(t)
	alertRepo := memory.NewAlertRepo(store)
	require.NoError(t, alertRepo.Create(&entity.LowStockAlert{
		ID:        "a1",
		ProductID: testProductID,
		Status:    entity.AlertStatusActive,
		CreatedAt: time.Now(),
	}))

	out, err := uc.AcknowledgeAlert(context.Background(), "a1", testUserID)
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusAcknowledged, out.Status)
	assert.Equal(t, testUserID, out.AcknowledgedBy)
	assert.NotNil(t, out.AcknowledgedAt)

	// Reconocer dos veces es conflicto: el estado es terminal.
	_, err = uc.AcknowledgeAlert(context.Background(), "a1", testUserID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.AcknowledgeAlert(context.Background(), "no-existe", testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
