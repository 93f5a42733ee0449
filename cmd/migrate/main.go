// Aplica el esquema embebido contra la base configurada (DATABASE_URL o DB_*).
// Los archivos de migrations/ se ejecutan en orden por nombre; el esquema es
// idempotente (CREATE ... IF NOT EXISTS), así que correrlo dos veces es seguro.
package main

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-ledger/migrations"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	entries, err := migrations.FS.ReadDir(".")
	if err != nil {
		log.Fatal().Err(err).Msg("leer migraciones embebidas")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := migrations.FS.ReadFile(name)
		if err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("leer migración")
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			log.Fatal().Err(err).Str("file", name).Msg("aplicar migración")
		}
		log.Info().Str("file", name).Msg("migración aplicada")
	}

	log.Info().Int("count", len(names)).Msg("esquema al día")
}
