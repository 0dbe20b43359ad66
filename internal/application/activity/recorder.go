// Package activity registra y consulta la auditoría de acciones del panel.
package activity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
	"github.com/jhoicas/tienda-rfid-api/pkg/textsearch"
)

// PageSize tamaño fijo de página del registro de actividad.
const PageSize = 20

type actorKey struct{}

// WithActor guarda en el contexto el usuario que ejecuta la acción.
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// Actor devuelve el usuario guardado con WithActor ("" si no hay).
func Actor(ctx context.Context) string {
	s, _ := ctx.Value(actorKey{}).(string)
	return s
}

// Entry acción a registrar. Err != nil la marca como fallida.
type Entry struct {
	EntityType string
	EntityID   string
	Action     string
	Details    string
	Err        error
}

// Recorder escribe entradas de auditoría. Un Recorder nil no registra nada.
type Recorder struct {
	repo repository.ActivityLogRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewRecorder construye el recorder.
func NewRecorder(repo repository.ActivityLogRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log.Component("activity"), now: time.Now}
}

// Record persiste la entrada. Es best-effort: un fallo se registra en el log
// y nunca se propaga a la operación de negocio.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil {
		return
	}
	status := entity.ActivitySuccess
	details := e.Details
	if e.Err != nil {
		status = entity.ActivityFailed
		if details == "" {
			details = e.Err.Error()
		} else {
			details += ": " + e.Err.Error()
		}
	}
	entry := &entity.ActivityLog{
		ID:         uuid.New().String(),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Status:     status,
		Details:    details,
		UserID:     Actor(ctx),
		Timestamp:  r.now(),
	}
	if err := r.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		r.log.Warn().Err(err).
			Str("entity_type", e.EntityType).
			Str("entity_id", e.EntityID).
			Str("action", e.Action).
			Msg("no se pudo registrar la actividad")
	}
}

// List devuelve una página del registro filtrada por pestaña, texto y fechas.
func (r *Recorder) List(ctx context.Context, in dto.ActivityLogListRequest) (*dto.ActivityLogListResponse, error) {
	if in.EntityType != "" && !entity.IsValidActivityEntity(in.EntityType) {
		return nil, domain.Invalid("entity_type desconocido: " + in.EntityType)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, domain.Invalid("endDate debe ser posterior a startDate")
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	f := repository.ActivityLogFilter{
		EntityType: in.EntityType,
		ListFilter: repository.ListFilter{
			Keyword: textsearch.Fold(strings.TrimSpace(in.Keyword)),
			From:    in.StartDate,
			To:      in.EndDate,
			Limit:   PageSize,
			Offset:  (page - 1) * PageSize,
		},
	}
	list, total, err := r.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.ActivityLogListResponse{Logs: make([]dto.ActivityLogResponse, 0, len(list)), Total: total, Page: page}
	for _, l := range list {
		out.Logs = append(out.Logs, dto.ActivityLogResponse{
			ID:         l.ID,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Action:     l.Action,
			Status:     l.Status,
			Details:    l.Details,
			UserID:     l.UserID,
			Timestamp:  l.Timestamp,
		})
	}
	return out, nil
}
