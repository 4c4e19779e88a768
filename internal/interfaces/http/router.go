package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Sales         *sales.SaleUseCase
	Items         *usecase.ItemUseCase
	Categories    *usecase.CategoryUseCase
	Suppliers     *usecase.SupplierUseCase
	Reports       *analytics.ReportUseCase
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Kardex
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Replenishment, log)
	invGroup := api.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.ApplyMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Get("/items/:id/verify", inventoryHandler.VerifyItem)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Ventas
	saleHandler := NewSaleHandler(deps.Sales, log)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", RequireRole(RoleAdmin), saleHandler.Cancel)

	// Catálogo
	itemHandler := NewItemHandler(deps.Items, log)
	items := api.Group("/items")
	items.Post("/", RequireRole(RoleAdmin, RoleBodeguero), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Patch("/:id", RequireRole(RoleAdmin, RoleBodeguero), itemHandler.Update)
	items.Delete("/:id", RequireRole(RoleAdmin), itemHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.Categories, log)
	categories := api.Group("/categories")
	categories.Post("/", RequireRole(RoleAdmin, RoleBodeguero), categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Patch("/:id", RequireRole(RoleAdmin, RoleBodeguero), categoryHandler.Update)
	categories.Delete("/:id", RequireRole(RoleAdmin), categoryHandler.Delete)

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.Suppliers, log)
	suppliers := api.Group("/suppliers")
	suppliers.Post("/", RequireRole(RoleAdmin, RoleBodeguero), supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Get("/:id/items", supplierHandler.Items)
	suppliers.Patch("/:id", RequireRole(RoleAdmin, RoleBodeguero), supplierHandler.Update)
	suppliers.Post("/:id/toggle-status", RequireRole(RoleAdmin, RoleBodeguero), supplierHandler.ToggleStatus)
	suppliers.Delete("/:id", RequireRole(RoleAdmin), supplierHandler.Delete)

	// Reportes
	reportHandler := NewReportHandler(deps.Reports, log)
	reports := api.Group("/reports")
	reports.Get("/stock-status", reportHandler.StockStatus)
	reports.Get("/movements/series", reportHandler.MovementSeries)
	reports.Get("/sales-ranking", reportHandler.SalesRanking)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/stock-by-category", reportHandler.StockByCategory)
}
