package dto

import "time"

// EPCRequest body para registrar una etiqueta.
type EPCRequest struct {
	EPC string `json:"epc"`
}

// BulkEPCRequest body para registrar varias etiquetas a la vez.
type BulkEPCRequest struct {
	EPCs []string `json:"epcs"`
}

// BulkEPCResponse resultado del registro masivo.
type BulkEPCResponse struct {
	Created    int      `json:"created"`
	Duplicates []string `json:"duplicates,omitempty"`
	Invalid    []string `json:"invalid,omitempty"`
}

// AssignEPCRequest body para POST /api/epc/assign.
type AssignEPCRequest struct {
	EPC       string `json:"epc"`
	ProductID string `json:"product_id"`
}

// EPCProductResponse producto resumido de una etiqueta.
type EPCProductResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku,omitempty"`
	Category string `json:"category,omitempty"`
}

// EPCResponse etiqueta registrada.
type EPCResponse struct {
	ID         string              `json:"id"`
	EPC        string              `json:"epc"`
	IsAssigned bool                `json:"is_assigned"`
	Product    *EPCProductResponse `json:"product,omitempty"`
	AssignedAt *time.Time          `json:"assigned_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// EPCListRequest filtros del listado de etiquetas. Status: assigned | unassigned.
type EPCListRequest struct {
	PageRequest
}

// EPCListResponse lista paginada de etiquetas.
type EPCListResponse struct {
	Items []EPCResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// ScanEntryResponse etiqueta de la sesión en vivo (mensaje WebSocket y snapshot).
type ScanEntryResponse struct {
	EPC        string              `json:"epc"`
	Quantity   int                 `json:"quantity"`
	Antenna    int                 `json:"antenna,omitempty"`
	RSSI       float64             `json:"rssi,omitempty"`
	IsAssigned bool                `json:"is_assigned"`
	Product    *EPCProductResponse `json:"product,omitempty"`
	FirstSeen  time.Time           `json:"first_seen"`
	LastSeen   time.Time           `json:"last_seen"`
}

// ScanEvent mensaje que reciben los suscriptores de /ws/scan.
type ScanEvent struct {
	Type    string             `json:"type"` // read | reset | reading
	Entry   *ScanEntryResponse `json:"entry,omitempty"`
	Reading *bool              `json:"reading,omitempty"`
}

// ScanSnapshotResponse estado de la sesión de escaneo.
type ScanSnapshotResponse struct {
	Entries    []ScanEntryResponse `json:"entries"`
	Distinct   int                 `json:"distinct"`
	TotalReads int                 `json:"total_reads"`
	Unassigned int                 `json:"unassigned"`
	Required   int                 `json:"required,omitempty"`
	Check      string              `json:"check,omitempty"` // under | exact | over
	Reading    bool                `json:"reading"`
	StartedAt  time.Time           `json:"started_at"`
}

// ReadRequest lectura enviada por POST /api/rfid/reads.
type ReadRequest struct {
	EPC     string  `json:"epc"`
	Antenna int     `json:"antenna"`
	RSSI    float64 `json:"rssi"`
}

// IngestResponse cuántas lecturas se aceptaron.
type IngestResponse struct {
	Accepted int `json:"accepted"`
	Distinct int `json:"distinct"`
}

// ReconcileLineResponse conteo por producto en la conciliación.
type ReconcileLineResponse struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name,omitempty"`
	Expected    int      `json:"expected"`
	Scanned     int      `json:"scanned"`
	Count       int      `json:"count"`
	EPCs        []string `json:"epcs,omitempty"`
}

// ReconcileResponse resultado de comparar las lecturas contra un documento.
type ReconcileResponse struct {
	Source         string                  `json:"source"` // invoice | import_note
	SourceID       string                  `json:"source_id"`
	SourceCode     string                  `json:"source_code"`
	Matched        []ReconcileLineResponse `json:"matched"`
	Missing        []ReconcileLineResponse `json:"missing"`
	Extra          []ReconcileLineResponse `json:"extra"`
	UnassignedEPCs []string                `json:"unassigned_epcs"`
	Complete       bool                    `json:"complete"`
}

// ReconcileRequest body opcional: si EPCs va vacío se usa la sesión en vivo.
type ReconcileRequest struct {
	EPCs []string `json:"epcs"`
}

// ReaderConnectRequest body de POST /api/rfid/reader/connect.
type ReaderConnectRequest struct {
	ComPort  string `json:"com_port"`
	BaudRate int    `json:"baud_rate"`
}

// ReaderStatusResponse estado del lector.
type ReaderStatusResponse struct {
	Connected bool `json:"connected"`
	Reading   bool `json:"reading"`
}

// BasebandDTO parámetros de banda base.
type BasebandDTO struct {
	BaseSpeed     int `json:"base_speed"`
	QValue        int `json:"q_value"`
	Session       int `json:"session"`
	InventoryFlag int `json:"inventory_flag"`
}

// FrequencyRangeDTO banda de frecuencia.
type FrequencyRangeDTO struct {
	Index int    `json:"index"`
	Label string `json:"label,omitempty"`
}

// AntennaPowerDTO potencia por antena (puerto 1..4).
type AntennaPowerDTO struct {
	Port  int `json:"port"`
	Power int `json:"power"`
}

// AntennaPowerList potencias configuradas.
type AntennaPowerList struct {
	Antennas []AntennaPowerDTO `json:"antennas"`
}
