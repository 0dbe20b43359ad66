package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/usecase"
)

// PromotionHandler maneja promociones y niveles de fidelidad.
type PromotionHandler struct {
	uc      *usecase.PromotionUseCase
	loyalty *usecase.LoyaltyUseCase
}

// NewPromotionHandler construye el handler.
func NewPromotionHandler(uc *usecase.PromotionUseCase, loyalty *usecase.LoyaltyUseCase) *PromotionHandler {
	return &PromotionHandler{uc: uc, loyalty: loyalty}
}

// Create godoc
// @Summary      Crear promoción
// @Tags         promotions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PromotionRequest  true  "name es el código; discount en %"
// @Success      201   {object}  dto.PromotionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/promotions [post]
func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	var in dto.PromotionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener promoción
// @Tags         promotions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la promoción"
// @Success      200  {object}  dto.PromotionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/promotions/{id} [get]
func (h *PromotionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByCode godoc
// @Summary      Validar código de promoción
// @Description  404 si no existe; 400 PROMOTION_INACTIVE si no está vigente.
// @Tags         promotions
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código (nombre) de la promoción"
// @Success      200   {object}  dto.PromotionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/promotions/code/{code} [get]
func (h *PromotionHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar promoción
// @Tags         promotions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la promoción"
// @Param        body  body  dto.PromotionRequest  true  "Datos de la promoción"
// @Success      200   {object}  dto.PromotionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/promotions/{id} [put]
func (h *PromotionHandler) Update(c *fiber.Ctx) error {
	var in dto.PromotionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar promociones
// @Tags         promotions
// @Security     Bearer
// @Produce      json
// @Param        limit    query  int     false  "Límite"
// @Param        offset   query  int     false  "Offset"
// @Param        keyword  query  string  false  "Texto de búsqueda"
// @Param        status   query  string  false  "Not Applied | Active | Expired"
// @Success      200  {object}  dto.PromotionListResponse
// @Router       /api/promotions [get]
func (h *PromotionHandler) List(c *fiber.Ctx) error {
	p, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar promoción
// @Tags         promotions
// @Security     Bearer
// @Param        id   path  string  true  "ID de la promoción"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/promotions/{id} [delete]
func (h *PromotionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateLoyalty POST /api/loyalty-discounts
func (h *PromotionHandler) CreateLoyalty(c *fiber.Ctx) error {
	var in dto.LoyaltyDiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.loyalty.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetLoyalty GET /api/loyalty-discounts/:id
func (h *PromotionHandler) GetLoyalty(c *fiber.Ctx) error {
	out, err := h.loyalty.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateLoyalty PUT /api/loyalty-discounts/:id
func (h *PromotionHandler) UpdateLoyalty(c *fiber.Ctx) error {
	var in dto.LoyaltyDiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.loyalty.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListLoyalty GET /api/loyalty-discounts
func (h *PromotionHandler) ListLoyalty(c *fiber.Ctx) error {
	p, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.loyalty.List(c.UserContext(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteLoyalty DELETE /api/loyalty-discounts/:id
func (h *PromotionHandler) DeleteLoyalty(c *fiber.Ctx) error {
	if err := h.loyalty.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetNorm godoc
// @Summary      Valor monetario de un punto
// @Tags         loyalty
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MonetaryNormResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/monetary-norm [get]
func (h *PromotionHandler) GetNorm(c *fiber.Ctx) error {
	out, err := h.loyalty.GetNorm(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateNorm godoc
// @Summary      Actualizar valor de un punto
// @Tags         loyalty
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MonetaryNormRequest  true  "money_per_point > 0"
// @Success      200   {object}  dto.MonetaryNormResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/monetary-norm [put]
func (h *PromotionHandler) UpdateNorm(c *fiber.Ctx) error {
	var in dto.MonetaryNormRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.loyalty.UpdateNorm(c.UserContext(), in.MoneyPerPoint)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
