package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	domrfid "github.com/jhoicas/tienda-rfid-api/internal/domain/rfid"
)

// RFIDHandler sesión de lectura en vivo (vía HTTP) y control del lector.
type RFIDHandler struct {
	hub    *rfid.Hub
	reader *rfid.ReaderUseCase
}

// NewRFIDHandler construye el handler.
func NewRFIDHandler(hub *rfid.Hub, reader *rfid.ReaderUseCase) *RFIDHandler {
	return &RFIDHandler{hub: hub, reader: reader}
}

// Reads godoc
// @Summary      Enviar lecturas a la sesión
// @Description  Alternativa HTTP a /ws/scan/ingest para puentes que no usan WebSocket.
// @Tags         rfid
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.ReadRequest  true  "Lecturas"
// @Success      202   {object}  dto.IngestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/rfid/reads [post]
func (h *RFIDHandler) Reads(c *fiber.Ctx) error {
	var in []dto.ReadRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	now := time.Now()
	reads := make([]domrfid.Read, 0, len(in))
	for _, r := range in {
		epc := entity.NormalizeEPC(r.EPC)
		if epc == "" {
			return fail(c, fiber.StatusBadRequest, "VALIDATION", "epc inválido: "+r.EPC)
		}
		reads = append(reads, domrfid.Read{EPC: epc, Antenna: r.Antenna, RSSI: r.RSSI, At: now})
	}
	accepted := h.hub.Ingest(c.UserContext(), reads)
	return c.Status(fiber.StatusAccepted).JSON(dto.IngestResponse{Accepted: accepted, Distinct: h.hub.Distinct()})
}

// Snapshot godoc
// @Summary      Estado de la sesión de lectura
// @Tags         rfid
// @Security     Bearer
// @Produce      json
// @Param        required  query  int  false  "Cantidad de etiquetas esperada (agrega check under/exact/over)"
// @Success      200  {object}  dto.ScanSnapshotResponse
// @Router       /api/rfid/session [get]
func (h *RFIDHandler) Snapshot(c *fiber.Ctx) error {
	required := c.QueryInt("required", 0)
	if required < 0 {
		return fail(c, fiber.StatusBadRequest, "VALIDATION", "required no puede ser negativo")
	}
	return c.JSON(h.hub.Snapshot(required))
}

// Reset godoc
// @Summary      Vaciar la sesión de lectura
// @Tags         rfid
// @Security     Bearer
// @Success      204
// @Router       /api/rfid/session [delete]
func (h *RFIDHandler) Reset(c *fiber.Ctx) error {
	h.hub.Reset()
	return c.SendStatus(fiber.StatusNoContent)
}

// Connect godoc
// @Summary      Conectar el lector
// @Tags         reader
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReaderConnectRequest  true  "com_port, baud_rate"
// @Success      200   {object}  dto.ReaderStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/rfid/reader/connect [post]
func (h *RFIDHandler) Connect(c *fiber.Ctx) error {
	var in dto.ReaderConnectRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reader.Connect(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Disconnect POST /api/rfid/reader/disconnect
func (h *RFIDHandler) Disconnect(c *fiber.Ctx) error {
	if err := h.reader.Disconnect(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReaderStatusResponse{})
}

// Start POST /api/rfid/reader/start
func (h *RFIDHandler) Start(c *fiber.Ctx) error {
	if err := h.reader.Start(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReaderStatusResponse{Connected: true, Reading: true})
}

// Stop POST /api/rfid/reader/stop
func (h *RFIDHandler) Stop(c *fiber.Ctx) error {
	if err := h.reader.Stop(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReaderStatusResponse{Connected: true, Reading: false})
}

// Status godoc
// @Summary      Estado del lector
// @Tags         reader
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReaderStatusResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/rfid/reader/status [get]
func (h *RFIDHandler) Status(c *fiber.Ctx) error {
	out, err := h.reader.Status(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetBaseband GET /api/rfid/reader/baseband
func (h *RFIDHandler) GetBaseband(c *fiber.Ctx) error {
	out, err := h.reader.GetBaseband(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetBaseband godoc
// @Summary      Configurar banda base
// @Description  base_speed ∈ {0,1,2,3,255}, session 0..3, q_value 0..15, inventory_flag 0..2.
// @Tags         reader
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BasebandDTO  true  "Parámetros"
// @Success      200   {object}  dto.BasebandDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/rfid/reader/baseband [put]
func (h *RFIDHandler) SetBaseband(c *fiber.Ctx) error {
	var in dto.BasebandDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reader.SetBaseband(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetFrequencyRange GET /api/rfid/reader/frequency
func (h *RFIDHandler) GetFrequencyRange(c *fiber.Ctx) error {
	out, err := h.reader.GetFrequencyRange(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// FrequencyOptions GET /api/rfid/reader/frequency/options
func (h *RFIDHandler) FrequencyOptions(c *fiber.Ctx) error {
	return c.JSON(h.reader.FrequencyOptions())
}

// SetFrequencyRange godoc
// @Summary      Configurar banda de frecuencia
// @Tags         reader
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FrequencyRangeDTO  true  "index ∈ {0,1,2,3,4,9}"
// @Success      200   {object}  dto.FrequencyRangeDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/rfid/reader/frequency [put]
func (h *RFIDHandler) SetFrequencyRange(c *fiber.Ctx) error {
	var in dto.FrequencyRangeDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reader.SetFrequencyRange(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetAntennaPower GET /api/rfid/reader/antenna-power
func (h *RFIDHandler) GetAntennaPower(c *fiber.Ctx) error {
	out, err := h.reader.GetAntennaPower(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetAntennaPower godoc
// @Summary      Configurar potencia de antenas
// @Tags         reader
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AntennaPowerList  true  "Puerto 1..4, potencia 1..33"
// @Success      200   {object}  dto.AntennaPowerList
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/rfid/reader/antenna-power [put]
func (h *RFIDHandler) SetAntennaPower(c *fiber.Ctx) error {
	var in dto.AntennaPowerList
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.reader.SetAntennaPower(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
