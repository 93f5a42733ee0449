package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-ledger/internal/application/auth"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/application/usecase"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/logger"
)

// storeDeps agrupa los puertos de persistencia y los tx runners, para poder
// elegir backend (postgres o memoria) en un solo punto.
type storeDeps struct {
	txRunner      inventory.TxRunner
	salesRunner   sales.SalesTxRunner
	stockRepo     repository.StockRepository
	movementRepo  repository.StockMovementRepository
	alertRepo     repository.AlertRepository
	productRepo   repository.ProductRepository
	saleRepo      repository.SaleRepository
	userRepo      repository.UserRepository
	categoryRepo  repository.CategoryRepository
	dashboardRepo repository.DashboardRepository
}

func postgresDeps(pool *pgxpool.Pool) storeDeps {
	txRunner := postgres.NewTxRunner(pool)
	return storeDeps{
		txRunner:      txRunner,
		salesRunner:   txRunner,
		stockRepo:     postgres.NewStockRepository(pool),
		movementRepo:  postgres.NewStockMovementRepository(pool),
		alertRepo:     postgres.NewAlertRepository(pool),
		productRepo:   postgres.NewProductRepository(pool),
		saleRepo:      postgres.NewSaleRepository(pool),
		userRepo:      postgres.NewUserRepository(pool),
		categoryRepo:  postgres.NewCategoryRepository(pool),
		dashboardRepo: postgres.NewDashboardRepository(pool),
	}
}

func memoryDeps(store *memory.Store) storeDeps {
	return storeDeps{
		txRunner:      store,
		salesRunner:   store,
		stockRepo:     memory.NewStockRepo(store),
		movementRepo:  memory.NewMovementRepo(store),
		alertRepo:     memory.NewAlertRepo(store),
		productRepo:   memory.NewProductRepo(store),
		saleRepo:      memory.NewSaleRepo(store),
		userRepo:      memory.NewUserRepo(store),
		categoryRepo:  memory.NewCategoryRepo(store),
		dashboardRepo: memory.NewDashboardRepo(store),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var deps storeDeps
	switch cfg.App.Store {
	case "memory":
		// Modo demo/desarrollo: todo en memoria, sin PostgreSQL.
		deps = memoryDeps(memory.NewStore())
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		deps = postgresDeps(pool)
	}

	adjustUC := inventory.NewAdjustStockUseCase(deps.txRunner, deps.productRepo)
	queryUC := inventory.NewStockQueryUseCase(deps.stockRepo, deps.movementRepo, deps.alertRepo)
	createSaleUC := sales.NewCreateSaleUseCase(deps.salesRunner, deps.productRepo, deps.stockRepo, deps.saleRepo)
	refundSaleUC := sales.NewRefundSaleUseCase(deps.salesRunner)

	receiptGenerator := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	receiptUC := sales.NewReceiptUseCase(deps.saleRepo, deps.productRepo, receiptGenerator)

	productUC := usecase.NewProductUseCase(deps.txRunner, deps.productRepo)
	categoryUC := usecase.NewCategoryUseCase(deps.categoryRepo)
	dashboardUC := usecase.NewDashboardUseCase(deps.dashboardRepo)
	authUC := auth.NewAuthUseCase(deps.userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CategoryUC:  categoryUC,
		DashboardUC: dashboardUC,
		AdjustUC:    adjustUC,
		QueryUC:     queryUC,
		CreateSale:  createSaleUC,
		RefundSale:  refundSaleUC,
		ReceiptUC:   receiptUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
