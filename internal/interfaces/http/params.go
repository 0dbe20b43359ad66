package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
)

const dateLayout = "2006-01-02"

// pageQuery lee limit, offset, keyword y status de la query.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, domain.Invalid("parámetros de paginación inválidos")
	}
	p.DefaultPage()
	return p, nil
}

// parseDate acepta RFC3339 o yyyy-mm-dd. Con endOfDay, una fecha sin hora
// se extiende hasta el final del día.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, domain.Invalid("fecha inválida: " + raw + " (use yyyy-mm-dd o RFC3339)")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// dateRange lee los parámetros de fecha fromKey/toKey.
func dateRange(c *fiber.Ctx, fromKey, toKey string) (from, to *time.Time, err error) {
	if from, err = parseDate(c.Query(fromKey), false); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate(c.Query(toKey), true); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// sendFile responde un adjunto binario.
func sendFile(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func xlsxName(prefix string) string {
	return prefix + "-" + time.Now().Format("20060102-150405") + ".xlsx"
}
