package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/alert"
	"github.com/tu-usuario/stock-ledger/internal/application/auth"
	"github.com/tu-usuario/stock-ledger/internal/application/stock"
	"github.com/tu-usuario/stock-ledger/internal/application/usecase"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC      *stock.UseCase
	StockQueries *stock.QueryUseCase
	AlertEngine  *alert.Engine
	ProductUC    *usecase.ProductUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	SupplierUC   *usecase.SupplierUseCase
	UserUC       *usecase.UserUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
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

	// Entradas/salidas de stock (protegido)
	stockHandler := NewStockHandler(deps.StockUC, deps.StockQueries)
	stockGroup := protected.Group("/stock")
	stockGroup.Post("/in", stockHandler.StockIn)
	stockGroup.Post("/out", stockHandler.StockOut)

	// Inventario actual (protegido)
	inventory := protected.Group("/inventory")
	inventory.Get("/", stockHandler.ListInventory)
	inventory.Get("/product/:id", stockHandler.ListInventoryByProduct)
	inventory.Get("/warehouse/:id", stockHandler.ListInventoryByWarehouse)

	// Historial del libro mayor (protegido)
	history := protected.Group("/stock-history")
	history.Get("/", stockHandler.ListHistory)
	history.Get("/product/:id", stockHandler.ListHistoryByProduct)
	history.Get("/warehouse/:id", stockHandler.ListHistoryByWarehouse)
	history.Get("/type/:type", stockHandler.ListHistoryByType)
	history.Get("/employee/:email", stockHandler.ListHistoryByEmployee)

	// Alertas de stock bajo (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertEngine)
	alerts.Get("/", alertHandler.ListAll)
	alerts.Get("/active", alertHandler.ListActive)
	alerts.Post("/:id/resolve", alertHandler.Resolve)

	// Products (protegido; borrar requiere rol admin o manager)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleManager), productHandler.Delete)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleManager), warehouseHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleManager), supplierHandler.Delete)

	// Users (protegido; administración solo para rol admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/email/:email", userHandler.GetByEmail)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
