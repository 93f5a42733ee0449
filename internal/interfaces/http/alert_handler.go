package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
)

// AlertHandler maneja las alertas de stock bajo (protegido).
type AlertHandler struct {
	queries *inventory.StockQueryUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(queries *inventory.StockQueryUseCase) *AlertHandler {
	return &AlertHandler{queries: queries}
}

// List devuelve alertas por estado (default active).
// GET /api/alerts?status=&limit=&offset=
func (h *AlertHandler) List(c *fiber.Ctx) error {
	out, err := h.queries.ListAlerts(c.Context(), c.Query("status"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// Acknowledge marca una alerta activa como reconocida (terminal).
// POST /api/alerts/:id/acknowledge
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.queries.AcknowledgeAlert(c.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "alerta no encontrada"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la alerta no está activa"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
