package entity

// ReaderStatus estado informado por el gateway del lector.
type ReaderStatus struct {
	Connected bool
	Reading   bool
	ComPort   string
	BaudRate  int
}

// Baseband parámetros de inventario EPC del lector.
type Baseband struct {
	BaseSpeed     int // 0,1,2,3 o 255 (auto)
	QValue        int // 0..15
	Session       int // 0..3
	InventoryFlag int // 0..2
}

// FrequencyRange banda de frecuencia configurada.
type FrequencyRange struct {
	Index int
	Label string
}

// AntennaPower potencia (dBm) por puerto de antena.
type AntennaPower struct {
	Port  int // 1..4
	Power int // 1..33
}

// Bandas de frecuencia soportadas por el lector.
var FrequencyLabels = map[int]string{
	0: "National Standard 920~925MHz",
	1: "National Standard 840~845MHz",
	2: "National Standard 840~845MHz and 920~925MHz",
	3: "FCC 902~928MHz",
	4: "ETSI 866~868MHz",
	9: "ALL_BAND 802.75~998.75MHz",
}

// IsValidBaseSpeed indica si la velocidad de banda base es soportada.
func IsValidBaseSpeed(v int) bool {
	switch v {
	case 0, 1, 2, 3, 255:
		return true
	}
	return false
}

// Validate verifica los rangos de Baseband. Devuelve el nombre del campo inválido.
func (b Baseband) Validate() (string, bool) {
	switch {
	case !IsValidBaseSpeed(b.BaseSpeed):
		return "base_speed", false
	case b.QValue < 0 || b.QValue > 15:
		return "q_value", false
	case b.Session < 0 || b.Session > 3:
		return "session", false
	case b.InventoryFlag < 0 || b.InventoryFlag > 2:
		return "inventory_flag", false
	}
	return "", true
}

// Validate verifica puerto y potencia.
func (a AntennaPower) Validate() (string, bool) {
	if a.Port < 1 || a.Port > 4 {
		return "port", false
	}
	if a.Power < 1 || a.Power > 33 {
		return "power", false
	}
	return "", true
}
