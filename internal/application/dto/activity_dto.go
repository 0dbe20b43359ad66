package dto

import "time"

// ActivityLogListRequest filtros del registro de actividad (página de 20).
type ActivityLogListRequest struct {
	EntityType string
	Page       int
	Keyword    string
	StartDate  *time.Time
	EndDate    *time.Time
}

// ActivityLogResponse entrada de auditoría.
type ActivityLogResponse struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	Status     string    `json:"status"`
	Details    string    `json:"details"`
	UserID     string    `json:"user_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityLogListResponse respuesta {logs, total}.
type ActivityLogListResponse struct {
	Logs  []ActivityLogResponse `json:"logs"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
}
