package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
)

// EPCHandler registro de etiquetas RFID y su asignación a productos.
type EPCHandler struct {
	uc *rfid.EPCUseCase
}

// NewEPCHandler construye el handler.
func NewEPCHandler(uc *rfid.EPCUseCase) *EPCHandler {
	return &EPCHandler{uc: uc}
}

// List godoc
// @Summary      Listar etiquetas
// @Tags         epc
// @Security     Bearer
// @Produce      json
// @Param        limit    query  int     false  "Límite"
// @Param        offset   query  int     false  "Offset"
// @Param        keyword  query  string  false  "EPC o producto"
// @Param        status   query  string  false  "assigned | unassigned"
// @Success      200  {object}  dto.EPCListResponse
// @Router       /api/epc [get]
func (h *EPCHandler) List(c *fiber.Ctx) error {
	p, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), dto.EPCListRequest{PageRequest: p})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Add godoc
// @Summary      Registrar etiqueta
// @Tags         epc
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EPCRequest  true  "EPC en hexadecimal"
// @Success      201   {object}  dto.EPCResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/epc [post]
func (h *EPCHandler) Add(c *fiber.Ctx) error {
	var in dto.EPCRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Add(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// BulkAdd godoc
// @Summary      Registrar varias etiquetas
// @Description  Todo o nada: cualquier EPC inválido rechaza el lote. Los duplicados se informan y se omiten.
// @Tags         epc
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkEPCRequest  true  "Lista de EPCs"
// @Success      201   {object}  dto.BulkEPCResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/epc/bulk [post]
func (h *EPCHandler) BulkAdd(c *fiber.Ctx) error {
	var in dto.BulkEPCRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.BulkAdd(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/epc/:epc
func (h *EPCHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("epc"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/epc/:epc
func (h *EPCHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("epc")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assign godoc
// @Summary      Asignar etiqueta a producto
// @Description  Una etiqueta desconocida se registra al asignarla.
// @Tags         epc
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignEPCRequest  true  "epc, product_id"
// @Success      200   {object}  dto.EPCResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/epc/assign [post]
func (h *EPCHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignEPCRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Assign(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Unassign POST /api/epc/:epc/unassign
func (h *EPCHandler) Unassign(c *fiber.Ctx) error {
	out, err := h.uc.Unassign(c.UserContext(), c.Params("epc"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Lookup godoc
// @Summary      Consultar varias etiquetas
// @Description  Devuelve solo las registradas.
// @Tags         epc
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkEPCRequest  true  "Lista de EPCs"
// @Success      200   {array}   dto.EPCResponse
// @Router       /api/epc/lookup [post]
func (h *EPCHandler) Lookup(c *fiber.Ctx) error {
	var in dto.BulkEPCRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Lookup(c.UserContext(), in.EPCs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
