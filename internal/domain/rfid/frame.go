// Package rfid modela las lecturas de etiquetas EPC: decodificación de tramas,
// sesión de escaneo en vivo y conciliación contra un documento.
package rfid

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/spf13/cast"
)

// minPlainEPC dígitos hex mínimos de un EPC enviado como texto plano (una palabra de 32 bits).
// Escalares JSON como `42` o `true` quedan fuera.
const minPlainEPC = 8

// Read una lectura individual reportada por el lector.
type Read struct {
	EPC     string
	Antenna int
	RSSI    float64
	At      time.Time
}

// DecodeFrame interpreta una trama de texto del lector.
// Acepta un objeto JSON, un arreglo de objetos, o el EPC en texto plano.
// Los campos numéricos pueden venir como string ("antenna": "2").
// Devuelve las lecturas válidas y un error solo si la trama completa es ilegible.
func DecodeFrame(data []byte, now time.Time) ([]Read, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil, fmt.Errorf("trama vacía")
	}
	if raw[0] != '{' && raw[0] != '[' {
		epc := entity.NormalizeEPC(raw)
		if len(epc) < minPlainEPC {
			return nil, fmt.Errorf("trama no reconocida")
		}
		return []Read{{EPC: epc, At: now}}, nil
	}

	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("trama JSON inválida: %w", err)
	}

	var objs []map[string]interface{}
	switch t := v.(type) {
	case map[string]interface{}:
		objs = append(objs, t)
	case []interface{}:
		for _, item := range t {
			if m, ok := item.(map[string]interface{}); ok {
				objs = append(objs, m)
			}
		}
	default:
		return nil, fmt.Errorf("trama con tipo inesperado %T", v)
	}

	reads := make([]Read, 0, len(objs))
	for _, m := range objs {
		if r, ok := readFromMap(m, now); ok {
			reads = append(reads, r)
		}
	}
	if len(reads) == 0 {
		return nil, fmt.Errorf("la trama no contiene EPC válidos")
	}
	return reads, nil
}

func readFromMap(m map[string]interface{}, now time.Time) (Read, bool) {
	epc := entity.NormalizeEPC(cast.ToString(first(m, "epc", "EPC", "Epc")))
	if epc == "" {
		return Read{}, false
	}
	r := Read{
		EPC:     epc,
		Antenna: cast.ToInt(first(m, "antenna", "ant", "Antenna")),
		RSSI:    cast.ToFloat64(first(m, "rssi", "RSSI", "Rssi")),
		At:      now,
	}
	if ts := first(m, "ts", "timestamp"); ts != nil {
		if at, ok := parseTimestamp(ts); ok {
			r.At = at
		}
	}
	return r, true
}

// parseTimestamp acepta milisegundos Unix (número o string) o RFC3339.
func parseTimestamp(v interface{}) (time.Time, bool) {
	if ms, err := cast.ToInt64E(v); err == nil && ms > 0 {
		return time.UnixMilli(ms), true
	}
	if t, err := cast.ToTimeE(v); err == nil && !t.IsZero() {
		return t, true
	}
	return time.Time{}, false
}

func first(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
