package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/tienda-rfid-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero de inicio.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen de la tienda
// @Description  Ventas de hoy y del mes (solo facturas completadas), pedidos pendientes, los 5 productos más vendidos del mes y las tallas con existencias bajas.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        low_stock  query  int  false  "Umbral de existencias bajas (por defecto 3)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	threshold := c.QueryInt("low_stock", appanalytics.DefaultLowStockThreshold)
	summary, err := h.uc.GetSummary(c.UserContext(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
