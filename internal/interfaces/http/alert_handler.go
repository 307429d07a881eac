package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger/internal/application/alert"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
)

// AlertHandler maneja las peticiones HTTP de alertas de stock bajo (protegido).
type AlertHandler struct {
	engine *alert.Engine
}

// NewAlertHandler construye el handler.
func NewAlertHandler(engine *alert.Engine) *AlertHandler {
	return &AlertHandler{engine: engine}
}

// ListAll devuelve todas las alertas, activas y resueltas.
// GET /api/alerts
func (h *AlertHandler) ListAll(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	alerts, err := h.engine.ListAll(c.Context(), page)
	if err != nil {
		return alertError(c, err)
	}
	return c.JSON(dto.ToAlertResponses(alerts))
}

// ListActive devuelve solo las alertas activas.
// GET /api/alerts/active
func (h *AlertHandler) ListActive(c *fiber.Ctx) error {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	alerts, err := h.engine.ListActive(c.Context(), page)
	if err != nil {
		return alertError(c, err)
	}
	return c.JSON(dto.ToAlertResponses(alerts))
}

// Resolve cierra el ciclo de alerta por acción del usuario. Idempotente.
// POST /api/alerts/:id/resolve
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	if err := h.engine.ManualResolve(c.Context(), c.Params("id")); err != nil {
		return alertError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func alertError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
	case errors.Is(err, domain.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "almacén de datos no disponible"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
