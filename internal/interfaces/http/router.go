package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/auth"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/application/usecase"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CategoryUC  *usecase.CategoryUseCase
	DashboardUC *usecase.DashboardUseCase
	AdjustUC    *inventory.AdjustStockUseCase
	QueryUC     *inventory.StockQueryUseCase
	CreateSale  *sales.CreateSaleUseCase
	RefundSale  *sales.RefundSaleUseCase
	ReceiptUC   *sales.ReceiptUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staffOnly := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Products (protegido; escritura solo admin/manager)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", staffOnly, productHandler.Create)
	products.Put("/:id", staffOnly, productHandler.Update)
	products.Delete("/:id", staffOnly, productHandler.Delete)

	// Categories (protegido; escritura solo admin/manager)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", staffOnly, categoryHandler.Create)

	// Stock (protegido; ajustes solo admin/manager).
	// adjust y bulk-adjust van antes de :productId para que no los capture el parámetro.
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.AdjustUC, deps.QueryUC)
	stock.Post("/adjust", staffOnly, stockHandler.Adjust)
	stock.Post("/bulk-adjust", staffOnly, stockHandler.BulkAdjust)
	stock.Get("/:productId", stockHandler.GetStockLine)
	stock.Get("/:productId/movements", stockHandler.ListMovements)

	// Alerts (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.QueryUC)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/:id/acknowledge", alertHandler.Acknowledge)

	// Sales (protegido; reembolsos solo admin/manager)
	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.CreateSale, deps.RefundSale, deps.ReceiptUC)
	salesGroup.Post("/", salesHandler.Create)
	salesGroup.Get("/:id", salesHandler.GetByID)
	salesGroup.Get("/:id/receipt", salesHandler.Receipt)
	salesGroup.Post("/:id/refund", staffOnly, salesHandler.Refund)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
}
