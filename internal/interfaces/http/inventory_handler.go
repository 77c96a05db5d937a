package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/application/inventory"
	"github.com/jhoicas/retailflow-api/internal/domain/entity"
	"github.com/jhoicas/retailflow-api/pkg/metrics"
)

// InventoryHandler maneja los ajustes de stock, el ledger y el reporte de existencias bajas (protegido).
type InventoryHandler struct {
	adjust   *inventory.AdjustStockUseCase
	ledger   *inventory.LedgerUseCase
	lowStock *inventory.LowStockUseCase
	metrics  *metrics.EngineMetrics
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	adjust *inventory.AdjustStockUseCase,
	ledger *inventory.LedgerUseCase,
	lowStock *inventory.LowStockUseCase,
	m *metrics.EngineMetrics,
) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, ledger: ledger, lowStock: lowStock, metrics: m}
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica delta_qty a la existencia del producto y registra el movimiento en el ledger.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta_qty, reason (ADJUSTMENT|RETURN_IN|RETURN_OUT), note"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.MovementReasonAdjustment
	}
	out, err := h.adjust.AdjustStockFromRequest(c.Context(), userID, in)
	h.metrics.IncAdjustment(reason, outcomeFor(err))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Movimientos de inventario de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	in := dto.ListMovementsRequest{
		ProductID: c.Query("product_id"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 0),
			Offset: c.QueryInt("offset", 0),
		},
	}
	if ok, err := validateStruct(c, &in); !ok {
		return err
	}
	out, err := h.ledger.ListMovements(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos en o bajo su nivel de reorden
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.LowStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	in := dto.LowStockRequest{
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 0),
			Offset: c.QueryInt("offset", 0),
		},
	}
	if ok, err := validateStruct(c, &in); !ok {
		return err
	}
	out, err := h.lowStock.ListLowStock(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
