package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
)

// Un error dentro del callback debe dejar el almacén exactamente como estaba,
// incluyendo escrituras ya hechas dentro de la transacción.
func TestRun_ErrorRevierteTodasLasEscrituras(t *testing.T) {
	store := memory.NewStore()
	stockRepo := memory.NewStockRepo(store)
	require.NoError(t, stockRepo.Create(&entity.StockLine{ProductID: "p1", Quantity: 10}))

	boom := errors.New("falla simulada")
	err := store.Run(context.Background(), func(
		stock repository.StockRepository,
		mov repository.StockMovementRepository,
		alert repository.AlertRepository,
		_ repository.ProductRepository,
	) error {
		line, err := stock.GetForUpdate("p1", "")
		require.NoError(t, err)
		line.Quantity = 0
		require.NoError(t, stock.Update(line))
		require.NoError(t, mov.Create(&entity.StockMovement{
			ID: "m1", ProductID: "p1", Type: entity.MovementTypeOut,
			QuantityChange: -10, QuantityBefore: 10, CreatedAt: time.Now(),
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	line, err := stockRepo.Get("p1", "")
	require.NoError(t, err)
	assert.Equal(t, 10, line.Quantity, "la escritura dentro de la tx fallida no sobrevive")

	movements, err := memory.NewMovementRepo(store).List(repository.MovementFilter{ProductID: "p1", Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestRun_ExitoConservaLasEscrituras(t *testing.T) {
	store := memory.NewStore()
	stockRepo := memory.NewStockRepo(store)
	require.NoError(t, stockRepo.Create(&entity.StockLine{ProductID: "p1", Quantity: 10}))

	err := store.Run(context.Background(), func(
		stock repository.StockRepository,
		_ repository.StockMovementRepository,
		_ repository.AlertRepository,
		_ repository.ProductRepository,
	) error {
		line, err := stock.GetForUpdate("p1", "")
		require.NoError(t, err)
		line.Quantity = 4
		return stock.Update(line)
	})
	require.NoError(t, err)

	line, err := stockRepo.Get("p1", "")
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)
}

// Los repos devuelven copias: mutar el valor retornado no debe tocar el estado
// interno hasta hacer Update.
func TestGet_DevuelveCopia(t *testing.T) {
	store := memory.NewStore()
	stockRepo := memory.NewStockRepo(store)
	require.NoError(t, stockRepo.Create(&entity.StockLine{ProductID: "p1", Quantity: 10}))

	line, err := stockRepo.Get("p1", "")
	require.NoError(t, err)
	line.Quantity = 999

	fresh, err := stockRepo.Get("p1", "")
	require.NoError(t, err)
	assert.Equal(t, 10, fresh.Quantity)
}
