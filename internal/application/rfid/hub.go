package rfid

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	domrfid "github.com/jhoicas/tienda-rfid-api/internal/domain/rfid"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

// Tipos de evento que reciben los suscriptores.
const (
	EventRead    = "read"
	EventReset   = "reset"
	EventReading = "reading"
)

// Subscription canal de eventos de un suscriptor. El hub lo cierra al
// desuscribir o cuando el suscriptor no consume a tiempo.
type Subscription struct {
	ch chan dto.ScanEvent
}

// Events canal de solo lectura con los eventos de la sesión.
func (s *Subscription) Events() <-chan dto.ScanEvent { return s.ch }

// Hub mantiene la única sesión de lectura en vivo y reparte cada lectura
// enriquecida a los suscriptores WebSocket.
type Hub struct {
	mu      sync.Mutex
	session *domrfid.Session
	reading bool
	subs    map[*Subscription]struct{}

	lookup TagLookup
	buffer int
	log    *logger.Logger
	now    func() time.Time
}

// NewHub construye el hub. buffer es la capacidad del canal de cada suscriptor.
func NewHub(lookup TagLookup, buffer int, log *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		session: domrfid.NewSession(time.Now()),
		subs:    make(map[*Subscription]struct{}),
		lookup:  lookup,
		buffer:  buffer,
		log:     log.Component("scan_hub"),
		now:     time.Now,
	}
}

// Subscribe registra un suscriptor nuevo.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{ch: make(chan dto.ScanEvent, h.buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe quita al suscriptor y cierra su canal. Es idempotente.
func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(s)
}

// drop requiere h.mu.
func (h *Hub) drop(s *Subscription) {
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.ch)
}

// Subscribers cantidad de suscriptores activos.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// broadcast requiere h.mu. Un suscriptor con el buffer lleno se descarta.
func (h *Hub) broadcast(ev dto.ScanEvent) {
	for s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			h.log.Warn().Int("buffer", h.buffer).Msg("suscriptor lento descartado")
			h.drop(s)
		}
	}
}

// IngestFrame decodifica un frame del lector y lo registra.
func (h *Hub) IngestFrame(ctx context.Context, data []byte) (int, error) {
	reads, err := domrfid.DecodeFrame(data, h.now())
	if err != nil {
		return 0, err
	}
	return h.Ingest(ctx, reads), nil
}

// Ingest registra las lecturas, consulta el registro para las etiquetas nuevas
// y emite un evento por cada EPC tocado. Devuelve las lecturas aceptadas.
func (h *Hub) Ingest(ctx context.Context, reads []domrfid.Read) int {
	if len(reads) == 0 {
		return 0
	}
	h.mu.Lock()
	var touched, unknown []string
	seen := make(map[string]bool, len(reads))
	for _, r := range reads {
		e, _ := h.session.Record(r)
		if seen[e.EPC] {
			continue
		}
		seen[e.EPC] = true
		touched = append(touched, e.EPC)
		if !e.Known {
			unknown = append(unknown, e.EPC)
		}
	}
	h.mu.Unlock()

	// La consulta a la base se hace fuera del lock.
	var found map[string]*entity.EPC
	if len(unknown) > 0 && h.lookup != nil {
		res, err := h.lookup.Lookup(ctx, unknown)
		if err != nil {
			h.log.Error().Err(err).Int("epcs", len(unknown)).Msg("consulta de etiquetas fallida")
		} else {
			found = res
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if found != nil {
		for _, epc := range unknown {
			h.session.Enrich(epc, tagInfo(found[epc]))
		}
	}
	for _, epc := range touched {
		if e, ok := h.session.Get(epc); ok {
			entry := toScanEntry(e)
			h.broadcast(dto.ScanEvent{Type: EventRead, Entry: &entry})
		}
	}
	return len(reads)
}

// TagChanged actualiza la etiqueta en la sesión si ya fue leída.
func (h *Hub) TagChanged(epc string, info domrfid.TagInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.session.Enrich(epc, info); ok {
		entry := toScanEntry(e)
		h.broadcast(dto.ScanEvent{Type: EventRead, Entry: &entry})
	}
}

// Reset vacía la sesión y avisa a los suscriptores.
func (h *Hub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.Reset(h.now())
	h.broadcast(dto.ScanEvent{Type: EventReset})
}

// SetReading marca si el lector está inventariando.
func (h *Hub) SetReading(reading bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.reading == reading {
		return
	}
	h.reading = reading
	h.broadcast(dto.ScanEvent{Type: EventReading, Reading: &reading})
}

// Reading indica si el lector está inventariando.
func (h *Hub) Reading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reading
}

// Snapshot estado de la sesión; required > 0 agrega la comparación under/exact/over.
func (h *Hub) Snapshot(required int) dto.ScanSnapshotResponse {
	h.mu.Lock()
	snap := h.session.Snapshot(required)
	reading := h.reading
	h.mu.Unlock()

	out := dto.ScanSnapshotResponse{
		Entries:    make([]dto.ScanEntryResponse, 0, len(snap.Entries)),
		Distinct:   snap.Distinct,
		TotalReads: snap.TotalReads,
		Unassigned: snap.Unassigned,
		Required:   snap.Required,
		Check:      snap.Check,
		Reading:    reading,
		StartedAt:  snap.StartedAt,
	}
	for _, e := range snap.Entries {
		out.Entries = append(out.Entries, toScanEntry(e))
	}
	return out
}

// Distinct cantidad de etiquetas distintas leídas, sin copiar la sesión.
func (h *Hub) Distinct() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Len()
}

// EPCs etiquetas distintas de la sesión en orden de lectura.
func (h *Hub) EPCs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := h.session.Entries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.EPC)
	}
	return out
}

func toScanEntry(e domrfid.Entry) dto.ScanEntryResponse {
	out := dto.ScanEntryResponse{
		EPC:        e.EPC,
		Quantity:   e.Quantity,
		Antenna:    e.Antenna,
		RSSI:       e.RSSI,
		IsAssigned: e.Assigned,
		FirstSeen:  e.FirstSeen,
		LastSeen:   e.LastSeen,
	}
	if e.Assigned {
		out.Product = &dto.EPCProductResponse{ID: e.ProductID, Name: e.ProductName, SKU: e.ProductSKU, Category: e.CategoryName}
	}
	return out
}
