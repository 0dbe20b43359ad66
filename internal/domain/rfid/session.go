package rfid

import "time"

// Resultado de comparar las etiquetas leídas contra las requeridas.
const (
	CheckUnder = "under"
	CheckExact = "exact"
	CheckOver  = "over"
)

// TagInfo datos de registro de una etiqueta (producto asignado).
type TagInfo struct {
	Assigned     bool
	ProductID    string
	ProductName  string
	ProductSKU   string
	CategoryName string
}

// Entry una etiqueta distinta vista durante la sesión.
type Entry struct {
	EPC       string
	Quantity  int // número de lecturas
	Antenna   int
	RSSI      float64
	FirstSeen time.Time
	LastSeen  time.Time
	Known     bool // ya se consultó el registro
	TagInfo
}

// Session lista ordenada de etiquetas indexada por EPC.
// No es segura para uso concurrente; el hub la protege.
type Session struct {
	entries    []Entry
	index      map[string]int
	totalReads int
	startedAt  time.Time
}

// NewSession crea una sesión vacía.
func NewSession(now time.Time) *Session {
	return &Session{index: make(map[string]int), startedAt: now}
}

// Record busca la etiqueta por EPC: si existe incrementa su contador,
// si no la agrega con cantidad 1. Devuelve la entrada resultante y si es nueva.
func (s *Session) Record(r Read) (Entry, bool) {
	s.totalReads++
	if i, ok := s.index[r.EPC]; ok {
		e := &s.entries[i]
		e.Quantity++
		e.LastSeen = r.At
		if r.Antenna != 0 {
			e.Antenna = r.Antenna
		}
		if r.RSSI != 0 {
			e.RSSI = r.RSSI
		}
		return *e, false
	}
	e := Entry{
		EPC:       r.EPC,
		Quantity:  1,
		Antenna:   r.Antenna,
		RSSI:      r.RSSI,
		FirstSeen: r.At,
		LastSeen:  r.At,
	}
	s.index[r.EPC] = len(s.entries)
	s.entries = append(s.entries, e)
	return e, true
}

// Enrich fija los datos de registro de una etiqueta ya leída.
func (s *Session) Enrich(epc string, info TagInfo) (Entry, bool) {
	i, ok := s.index[epc]
	if !ok {
		return Entry{}, false
	}
	s.entries[i].TagInfo = info
	s.entries[i].Known = true
	return s.entries[i], true
}

// Get devuelve la entrada de un EPC.
func (s *Session) Get(epc string) (Entry, bool) {
	i, ok := s.index[epc]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Entries copia de las entradas en orden de primera lectura.
func (s *Session) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len etiquetas distintas.
func (s *Session) Len() int { return len(s.entries) }

// TotalReads lecturas recibidas, incluidas las repetidas.
func (s *Session) TotalReads() int { return s.totalReads }

// StartedAt inicio de la sesión (o del último Reset).
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Reset vacía la sesión.
func (s *Session) Reset(now time.Time) {
	s.entries = nil
	s.index = make(map[string]int)
	s.totalReads = 0
	s.startedAt = now
}

// Snapshot estado de la sesión en un instante.
type Snapshot struct {
	Entries    []Entry
	Distinct   int
	TotalReads int
	Unassigned int
	Required   int
	Check      string // vacío si no se pidió comparación
	StartedAt  time.Time
}

// Snapshot copia el estado; si required > 0 compara la cantidad de etiquetas distintas.
func (s *Session) Snapshot(required int) Snapshot {
	snap := Snapshot{
		Entries:    s.Entries(),
		Distinct:   len(s.entries),
		TotalReads: s.totalReads,
		Required:   required,
		StartedAt:  s.startedAt,
	}
	for _, e := range s.entries {
		if e.Known && !e.Assigned {
			snap.Unassigned++
		}
	}
	if required > 0 {
		snap.Check = CompareCount(snap.Distinct, required)
	}
	return snap
}

// CompareCount devuelve under, exact u over.
func CompareCount(current, required int) string {
	switch {
	case current < required:
		return CheckUnder
	case current > required:
		return CheckOver
	default:
		return CheckExact
	}
}
