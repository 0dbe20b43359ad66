package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/billing"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
)

// InvoiceHandler ventas del POS: cotización, facturación, ciclo de estados, PDF y conciliación RFID.
type InvoiceHandler struct {
	uc        *billing.InvoiceUseCase
	pdf       *billing.PDFUseCase
	reconcile *rfid.ReconcileUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, pdf *billing.PDFUseCase, reconcile *rfid.ReconcileUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf, reconcile: reconcile}
}

func invoiceListQuery(c *fiber.Ctx) (dto.InvoiceListRequest, error) {
	p, err := pageQuery(c)
	if err != nil {
		return dto.InvoiceListRequest{}, err
	}
	from, to, err := dateRange(c, "from", "to")
	if err != nil {
		return dto.InvoiceListRequest{}, err
	}
	return dto.InvoiceListRequest{PageRequest: p, From: from, To: to}, nil
}

// Quote godoc
// @Summary      Cotizar carrito
// @Description  Mismo cálculo de precio que la facturación, sin persistir ni mover stock.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PriceQuoteRequest  true  "Carrito"
// @Success      200   {object}  dto.PriceQuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices/quote [post]
func (h *InvoiceHandler) Quote(c *fiber.Ctx) error {
	var in dto.PriceQuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Quote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear factura
// @Description  Descuenta stock en la misma transacción. Las ventas de tienda quedan Completed; las online, Pending.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cliente, tipo de pedido, promoción y carrito"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.Items) == 0 {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "el carrito está vacío")
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        limit    query  int     false  "Límite"
// @Param        offset   query  int     false  "Offset"
// @Param        keyword  query  string  false  "Código, cliente o teléfono"
// @Param        status   query  string  false  "Pending | Completed | Canceled"
// @Param        from     query  string  false  "Desde (yyyy-mm-dd)"
// @Param        to       query  string  false  "Hasta (yyyy-mm-dd, inclusive)"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	in, err := invoiceListQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar pedido
// @Description  Solo Pending. Otorga puntos al cliente.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/complete [post]
func (h *InvoiceHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Solo Pending. Devuelve el stock.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Descargar factura en PDF
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", filename, data)
}

// Export godoc
// @Summary      Exportar facturas a Excel
// @Tags         invoices
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        keyword  query  string  false  "Texto de búsqueda"
// @Param        status   query  string  false  "Estado"
// @Param        from     query  string  false  "Desde"
// @Param        to       query  string  false  "Hasta"
// @Success      200  {file}  binary
// @Router       /api/invoices/export [get]
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	in, err := invoiceListQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	data, err := h.uc.ExportExcel(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, xlsxContentType, xlsxName("facturas"), data)
}

// Reconcile godoc
// @Summary      Conciliar etiquetas leídas contra la factura
// @Description  Si epcs va vacío se usa la sesión de lectura en vivo.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true   "ID de la factura"
// @Param        body  body  dto.ReconcileRequest  false  "EPCs leídos"
// @Success      200   {object}  dto.ReconcileResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/reconcile [post]
func (h *InvoiceHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.reconcile.Invoice(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
