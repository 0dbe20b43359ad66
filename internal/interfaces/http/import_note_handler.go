package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/inventory"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
)

// ImportNoteHandler pedidos a proveedores, recepción y comprobantes de transacción.
type ImportNoteHandler struct {
	uc        *inventory.ImportNoteUseCase
	receipts  *inventory.ReceiptUseCase
	reconcile *rfid.ReconcileUseCase
}

// NewImportNoteHandler construye el handler.
func NewImportNoteHandler(uc *inventory.ImportNoteUseCase, receipts *inventory.ReceiptUseCase, reconcile *rfid.ReconcileUseCase) *ImportNoteHandler {
	return &ImportNoteHandler{uc: uc, receipts: receipts, reconcile: reconcile}
}

func importNoteListQuery(c *fiber.Ctx) (dto.ImportNoteListRequest, error) {
	p, err := pageQuery(c)
	if err != nil {
		return dto.ImportNoteListRequest{}, err
	}
	from, to, err := dateRange(c, "from", "to")
	if err != nil {
		return dto.ImportNoteListRequest{}, err
	}
	return dto.ImportNoteListRequest{PageRequest: p, SupplierID: c.Query("supplier_id"), From: from, To: to}, nil
}

// Create godoc
// @Summary      Crear nota de importación
// @Description  Los productos deben pertenecer al proveedor y la talla debe existir.
// @Tags         import-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateImportNoteRequest  true  "Proveedor y líneas"
// @Success      201   {object}  dto.ImportNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import-notes [post]
func (h *ImportNoteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateImportNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/import-notes/:id
func (h *ImportNoteHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar notas de importación
// @Tags         import-notes
// @Security     Bearer
// @Produce      json
// @Param        limit        query  int     false  "Límite"
// @Param        offset       query  int     false  "Offset"
// @Param        keyword      query  string  false  "Código o proveedor"
// @Param        status       query  string  false  "Pending | Completed | Canceled"
// @Param        supplier_id  query  string  false  "Proveedor"
// @Param        from         query  string  false  "Desde (yyyy-mm-dd)"
// @Param        to           query  string  false  "Hasta (yyyy-mm-dd)"
// @Success      200  {object}  dto.ImportNoteListResponse
// @Router       /api/import-notes [get]
func (h *ImportNoteHandler) List(c *fiber.Ctx) error {
	in, err := importNoteListQuery(c)
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
// @Summary      Recibir mercancía
// @Description  Suma lo recibido al stock en una transacción. Sin items se asume recibido lo pedido.
// @Tags         import-notes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true   "ID de la nota"
// @Param        body  body  dto.CompleteImportNoteRequest  false  "Cantidades recibidas por línea"
// @Success      200   {object}  dto.ImportNoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/import-notes/{id}/complete [post]
func (h *ImportNoteHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteImportNoteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Complete(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/import-notes/:id/cancel (solo Pending).
func (h *ImportNoteHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/import-notes/export
func (h *ImportNoteHandler) Export(c *fiber.Ctx) error {
	in, err := importNoteListQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	data, err := h.uc.ExportExcel(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, xlsxContentType, xlsxName("notas-importacion"), data)
}

// Reconcile POST /api/import-notes/:id/reconcile
func (h *ImportNoteHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.reconcile.ImportNote(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante de transacción en PDF
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.TransactionReceiptRequest  true  "type (import | export) e items"
// @Success      200   {file}  binary
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transactions/receipt [post]
func (h *ImportNoteHandler) Receipt(c *fiber.Ctx) error {
	var in dto.TransactionReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	data, filename, err := h.receipts.Build(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "application/pdf", filename, data)
}
