package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// StockHandler maneja ajustes de stock y consultas del libro de movimientos (protegido).
type StockHandler struct {
	adjust  *inventory.AdjustStockUseCase
	queries *inventory.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(adjust *inventory.AdjustStockUseCase, queries *inventory.StockQueryUseCase) *StockHandler {
	return &StockHandler{adjust: adjust, queries: queries}
}

// Adjust registra un ajuste manual de stock (in, out o adjustment).
// POST /api/stock/adjust
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.adjust.Adjust(c.Context(), userID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo o cantidad inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o línea de stock no encontrada"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// BulkAdjust registra varios ajustes en una sola transacción; los items
// inválidos se reportan en el resultado sin abortar el resto.
// POST /api/stock/bulk-adjust
func (h *StockHandler) BulkAdjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BulkAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.adjust.BulkAdjust(c.Context(), userID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items requeridos"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetStockLine devuelve la cantidad actual de una línea.
// GET /api/stock/:productId?variant_id=
func (h *StockHandler) GetStockLine(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id requerido"})
	}
	out, err := h.queries.GetStockLine(c.Context(), productID, c.Query("variant_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "línea de stock no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListMovements consulta el libro de movimientos de un producto.
// GET /api/stock/:productId/movements?variant_id=&type=&from=&to=&limit=&offset=
// from/to en RFC 3339. variant_id ausente = todas las variantes; vacío
// explícito (variant_id=) = solo la línea sin variante.
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id requerido"})
	}
	filter := repository.MovementFilter{
		ProductID: productID,
		Type:      c.Query("type"),
		Limit:     c.QueryInt("limit"),
		Offset:    c.QueryInt("offset"),
	}
	if variantID, ok := queryParam(c, "variant_id"); ok {
		filter.VariantID = &variantID
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC 3339)"})
	}
	filter.From = from
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC 3339)"})
	}
	filter.To = to

	out, err := h.queries.ListMovements(c.Context(), filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtro inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// queryParam distingue un query param ausente de uno presente vacío.
func queryParam(c *fiber.Ctx, key string) (string, bool) {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		return "", false
	}
	return string(args.Peek(key)), true
}

// parseTimeQuery parsea un query param RFC 3339 opcional.
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
