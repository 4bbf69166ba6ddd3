package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/comercio-pro/internal/application/carts"
	"github.com/tu-usuario/comercio-pro/internal/application/dto"
)

// CartHandler maneja el carrito de compras de un cliente (protegido).
// El cliente se identifica con el query param customer_id: el carrito es del
// cliente de la tienda, no del usuario autenticado que opera la caja.
type CartHandler struct {
	uc *carts.CartUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *carts.CartUseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

func customerIDParam(c *fiber.Ctx) string {
	return c.Query("customer_id")
}

// Get godoc
// @Summary      Carrito activo del cliente
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  true  "ID del cliente"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	customerID := customerIDParam(c)
	if customerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id es requerido"})
	}
	out, err := h.uc.Get(customerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddLine godoc
// @Summary      Agregar línea al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        customer_id  query  string  true  "ID del cliente"
// @Param        body  body  dto.AddCartLineRequest  true  "presentation_id, qty"
// @Success      201   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	customerID := customerIDParam(c)
	if customerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id es requerido"})
	}
	var in dto.AddCartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddLine(customerID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLine godoc
// @Summary      Cambiar cantidad de una línea
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        customer_id  query  string  true  "ID del cliente"
// @Param        id    path  string  true  "ID de la línea"
// @Param        body  body  dto.UpdateCartLineRequest  true  "qty"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cart/items/{id} [patch]
func (h *CartHandler) UpdateLine(c *fiber.Ctx) error {
	customerID := customerIDParam(c)
	lineID := c.Params("id")
	if customerID == "" || lineID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id e id son requeridos"})
	}
	var in dto.UpdateCartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateLine(customerID, lineID, in.Qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveLine godoc
// @Summary      Quitar línea del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  true  "ID del cliente"
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{id} [delete]
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	customerID := customerIDParam(c)
	lineID := c.Params("id")
	if customerID == "" || lineID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id e id son requeridos"})
	}
	out, err := h.uc.RemoveLine(customerID, lineID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar carrito (convertir en pedido)
// @Description  Reserva el stock de todas las líneas de forma atómica y crea
// @Description  el pedido PENDING. Si falta stock para una sola línea no se
// @Description  reserva nada.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        customer_id  query  string  true  "ID del cliente"
// @Param        body  body  dto.ConfirmCartRequest  true  "location_id, entrega, facturación"
// @Success      201   {object}  dto.ConfirmCartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/confirm [post]
func (h *CartHandler) Confirm(c *fiber.Ctx) error {
	customerID := customerIDParam(c)
	if customerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id es requerido"})
	}
	var in dto.ConfirmCartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Confirm(c.Context(), customerID, GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
