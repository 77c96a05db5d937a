package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailflow-api/internal/application/dto"
	"github.com/jhoicas/retailflow-api/internal/application/orders"
	"github.com/jhoicas/retailflow-api/pkg/metrics"
)

// OrderHandler checkout y consulta de órdenes (protegido).
type OrderHandler struct {
	create  *orders.CreateOrderUseCase
	receipt *orders.ReceiptUseCase
	metrics *metrics.EngineMetrics
}

// NewOrderHandler construye el handler.
func NewOrderHandler(create *orders.CreateOrderUseCase, receipt *orders.ReceiptUseCase, m *metrics.EngineMetrics) *OrderHandler {
	return &OrderHandler{create: create, receipt: receipt, metrics: m}
}

// Create godoc
// @Summary      Checkout de una orden
// @Description  Crea la orden, sus líneas y el pago, y descuenta el stock en una sola transacción.
// @Description  Con Idempotency-Key, un reintento con el mismo cuerpo devuelve la respuesta original.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  false  "Llave de idempotencia"
// @Param        body             body    dto.CreateOrderRequest  true   "Carrito, impuestos, descuento y pago"
// @Success      201  {object}  dto.CreateOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		h.metrics.ObserveCheckout(metrics.OutcomeInvalid, 0)
		return err
	}
	start := time.Now()
	out, err := h.create.CreateOrder(c.Context(), userID, in)
	h.metrics.ObserveCheckout(outcomeFor(err), time.Since(start))
	if err != nil {
		return writeError(c, err)
	}
	var units int64
	for _, it := range in.Items {
		units += it.Qty
	}
	h.metrics.AddUnitsSold(units)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden con líneas y pagos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.create.GetOrder(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar recibo PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdf, filename, err := h.receipt.DownloadReceipt(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
