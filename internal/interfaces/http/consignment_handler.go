package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/comercio-pro/internal/application/consignments"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
)

// ConsignmentHandler maneja consignaciones (protegido).
type ConsignmentHandler struct {
	uc *consignments.ConsignmentUseCase
}

// NewConsignmentHandler construye el handler.
func NewConsignmentHandler(uc *consignments.ConsignmentUseCase) *ConsignmentHandler {
	return &ConsignmentHandler{uc: uc}
}

// Create godoc
// @Summary      Despachar consignación
// @Description  Valida stock libre y descuenta el disponible de todas las
// @Description  líneas de forma atómica. La mercancía sale sin paso de reserva.
// @Tags         consignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsignmentRequest  true  "customer_id, location_id, lines"
// @Success      201   {object}  dto.ConsignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/consignments [post]
func (h *ConsignmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConsignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener consignación por ID
// @Tags         consignments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la consignación"
// @Success      200  {object}  dto.ConsignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consignments/{id} [get]
func (h *ConsignmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar consignaciones
// @Tags         consignments
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "OPEN | CLOSED | CANCELLED"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.ConsignmentResponse
// @Router       /api/consignments [get]
func (h *ConsignmentHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar consignación
// @Description  Liquida la consignación: la mercancía queda vendida y no
// @Description  retorna. No mueve stock.
// @Tags         consignments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la consignación"
// @Success      200  {object}  dto.ConsignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/consignments/{id}/close [patch]
func (h *ConsignmentHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.Close(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar consignación
// @Description  Retorna la mercancía al stock disponible y marca CANCELLED.
// @Description  Solo consignaciones OPEN.
// @Tags         consignments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la consignación"
// @Success      200  {object}  dto.ConsignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/consignments/{id}/cancel [patch]
func (h *ConsignmentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
