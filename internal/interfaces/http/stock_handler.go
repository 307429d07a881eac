package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/stock"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP de entradas/salidas de stock y las
// consultas de inventario e historial (protegido).
type StockHandler struct {
	uc      *stock.UseCase
	queries *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase, queries *stock.QueryUseCase) *StockHandler {
	return &StockHandler{uc: uc, queries: queries}
}

// StockIn registra una entrada de stock y devuelve el inventario actualizado.
// POST /api/stock/in
func (h *StockHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.StockIn(c.Context(), in.ProductID, in.WarehouseID, in.Quantity, in.PerformedByEmail)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.ToInventoryResponse(inv))
}

// StockOut registra una salida de stock y devuelve el inventario actualizado.
// POST /api/stock/out
func (h *StockHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	inv, err := h.uc.StockOut(c.Context(), in.ProductID, in.WarehouseID, in.Quantity, in.PerformedByEmail)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(dto.ToInventoryResponse(inv))
}

// ListInventory devuelve todas las filas de inventario.
// GET /api/inventory
func (h *StockHandler) ListInventory(c *fiber.Ctx) error {
	list, err := h.queries.ListInventory(c.Context())
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(inventoryResponses(list))
}

// ListInventoryByProduct devuelve el inventario de un producto en todas las bodegas.
// GET /api/inventory/product/:id
func (h *StockHandler) ListInventoryByProduct(c *fiber.Ctx) error {
	list, err := h.queries.ListInventoryByProduct(c.Context(), c.Params("id"))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(inventoryResponses(list))
}

// ListInventoryByWarehouse devuelve el inventario de una bodega.
// GET /api/inventory/warehouse/:id
func (h *StockHandler) ListInventoryByWarehouse(c *fiber.Ctx) error {
	list, err := h.queries.ListInventoryByWarehouse(c.Context(), c.Params("id"))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(inventoryResponses(list))
}

// ListHistory devuelve el historial del libro mayor, con filtros opcionales
// de rango de fechas (?from=RFC3339&to=RFC3339) y paginación.
// GET /api/stock-history
func (h *StockHandler) ListHistory(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}

	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from, err1 := time.Parse(time.RFC3339, fromStr)
		to, err2 := time.Parse(time.RFC3339, toStr)
		if err1 != nil || err2 != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339"})
		}
		list, err := h.queries.ListHistoryByRange(c.Context(), from, to, page)
		if err != nil {
			return stockError(c, err)
		}
		return c.JSON(historyResponses(list))
	}

	list, err := h.queries.ListHistory(c.Context(), page)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(historyResponses(list))
}

// ListHistoryByProduct devuelve el historial de un producto.
// GET /api/stock-history/product/:id
func (h *StockHandler) ListHistoryByProduct(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	list, err := h.queries.ListHistoryByProduct(c.Context(), c.Params("id"), page)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(historyResponses(list))
}

// ListHistoryByWarehouse devuelve el historial de una bodega.
// GET /api/stock-history/warehouse/:id
func (h *StockHandler) ListHistoryByWarehouse(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	list, err := h.queries.ListHistoryByWarehouse(c.Context(), c.Params("id"), page)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(historyResponses(list))
}

// ListHistoryByType devuelve el historial de un tipo de ajuste (ADD o REMOVE).
// GET /api/stock-history/type/:type
func (h *StockHandler) ListHistoryByType(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	list, err := h.queries.ListHistoryByType(c.Context(), c.Params("type"), page)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(historyResponses(list))
}

// ListHistoryByEmployee devuelve los ajustes realizados por un empleado.
// GET /api/stock-history/employee/:email
func (h *StockHandler) ListHistoryByEmployee(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	list, err := h.queries.ListHistoryByEmployee(c.Context(), c.Params("email"), page)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(historyResponses(list))
}

// stockError mapea los errores del dominio a códigos HTTP.
func stockError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":      "INSUFFICIENT_STOCK",
			"message":   insufficient.Error(),
			"available": insufficient.Available,
			"requested": insufficient.Requested,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto, bodega o inventario no encontrado"})
	case errors.Is(err, domain.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "almacén de datos no disponible; re-consultar antes de reintentar"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func inventoryResponses(list []*entity.Inventory) []dto.InventoryResponse {
	out := make([]dto.InventoryResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.ToInventoryResponse(inv))
	}
	return out
}

func historyResponses(list []*entity.StockHistory) []dto.StockHistoryResponse {
	out := make([]dto.StockHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.ToStockHistoryResponse(h))
	}
	return out
}
