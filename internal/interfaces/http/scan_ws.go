package http

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	wsFrameWait  = 5 * time.Second
)

// ScanSocket endpoints WebSocket de la sesión de lectura:
//   - /ws/scan: el panel recibe cada lectura enriquecida.
//   - /ws/scan/ingest: el puente del lector envía tramas de texto.
type ScanSocket struct {
	hub *rfid.Hub
	log *logger.Logger
}

// NewScanSocket construye los endpoints.
func NewScanSocket(hub *rfid.Hub, log *logger.Logger) *ScanSocket {
	return &ScanSocket{hub: hub, log: log.Component("scan_ws")}
}

// RequireUpgrade responde 426 a peticiones que no son WebSocket.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("ws_user", GetUserID(c))
		return c.Next()
	}
	return c.Status(fiber.StatusUpgradeRequired).JSON(dto.ErrorResponse{Code: "UPGRADE_REQUIRED", Message: "se requiere conexión WebSocket"})
}

// TokenFromQuery copia ?token= al header Authorization. Los navegadores no
// pueden fijar headers en el handshake WebSocket.
func TokenFromQuery(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		if tok := c.Query("token"); tok != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		}
	}
	return c.Next()
}

// Subscribe envía el snapshot actual y luego cada evento del hub.
// Un suscriptor lento es descartado por el hub y su conexión se cierra.
func (s *ScanSocket) Subscribe() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sub := s.hub.Subscribe()
		defer s.hub.Unsubscribe(sub)
		user, _ := conn.Locals("ws_user").(string)
		s.log.Info().Str("user_id", user).Int("subscribers", s.hub.Subscribers()).Msg("suscriptor conectado")

		// Lector de control: detecta el cierre del cliente.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		snap := s.hub.Snapshot(0)
		if err := s.writeJSON(conn, fiber.Map{"type": "snapshot", "snapshot": snap}); err != nil {
			return
		}

		ping := time.NewTicker(wsPingPeriod)
		defer ping.Stop()
		for {
			select {
			case <-done:
				return
			case ev, ok := <-sub.Events():
				if !ok {
					s.log.Debug().Str("user_id", user).Msg("cerrando conexión de suscriptor descartado")
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "buffer lleno"),
						time.Now().Add(wsWriteWait))
					return
				}
				if err := s.writeJSON(conn, ev); err != nil {
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	})
}

func (s *ScanSocket) writeJSON(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(v); err != nil {
		s.log.Debug().Err(err).Msg("escritura websocket fallida")
		return err
	}
	return nil
}

// Ingest recibe tramas del puente del lector. Una trama inválida se registra,
// se contesta con un error y la conexión sigue abierta.
func (s *ScanSocket) Ingest() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		user, _ := conn.Locals("ws_user").(string)
		s.log.Info().Str("user_id", user).Msg("puente de lectura conectado")
		defer s.log.Info().Str("user_id", user).Msg("puente de lectura desconectado")

		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.log.Warn().Err(err).Msg("cierre inesperado del puente")
				}
				return
			}
			if mt != websocket.TextMessage {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), wsFrameWait)
			n, err := s.hub.IngestFrame(ctx, data)
			cancel()
			if err != nil {
				s.log.Warn().Err(err).Int("bytes", len(data)).Msg("trama descartada")
				if werr := s.writeJSON(conn, fiber.Map{"type": "error", "message": err.Error()}); werr != nil {
					return
				}
				continue
			}
			if werr := s.writeJSON(conn, dto.IngestResponse{Accepted: n, Distinct: s.hub.Distinct()}); werr != nil {
				return
			}
		}
	})
}
