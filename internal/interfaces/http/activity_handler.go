package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/activity"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
)

// ActivityHandler consulta del registro de actividad (solo admin).
type ActivityHandler struct {
	rec *activity.Recorder
}

func NewActivityHandler(rec *activity.Recorder) *ActivityHandler {
	return &ActivityHandler{rec: rec}
}

// List godoc
// @Summary      Registro de actividad
// @Description  Páginas de 20 entradas, más recientes primero.
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        entity_type  query  string  false  "product | category | epc | invoice | import_note | user | promotion | loyalty | customer | supplier | employee"
// @Param        page         query  int     false  "Página (desde 1)"
// @Param        keyword      query  string  false  "Acción, detalle o entidad"
// @Param        startDate    query  string  false  "Desde (yyyy-mm-dd)"
// @Param        endDate      query  string  false  "Hasta (yyyy-mm-dd, inclusive)"
// @Success      200  {object}  dto.ActivityLogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/activity-logs [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRange(c, "startDate", "endDate")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.rec.List(c.UserContext(), dto.ActivityLogListRequest{
		EntityType: c.Query("entity_type"),
		Page:       c.QueryInt("page", 1),
		Keyword:    c.Query("keyword"),
		StartDate:  from,
		EndDate:    to,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
