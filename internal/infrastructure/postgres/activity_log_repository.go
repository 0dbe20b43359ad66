package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/textsearch"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo registro de auditoría (solo inserción y lectura).
type ActivityLogRepo struct {
	q Querier
}

func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO activity_logs (id, entity_type, entity_id, action, status, details, user_id, search_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.EntityType, l.EntityID, l.Action, l.Status, l.Details, l.UserID,
		textsearch.Key(l.Action, l.Details, l.EntityID), l.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// List del más reciente al más antiguo.
func (r *ActivityLogRepo) List(ctx context.Context, f repository.ActivityLogFilter) ([]*entity.ActivityLog, int, error) {
	var w where
	if f.EntityType != "" {
		w.add("entity_type = ?", f.EntityType)
	}
	w.keyword("search_key", f.Keyword)
	w.dates("created_at", f.ListFilter)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}
	tail, args := w.page(f.ListFilter)
	rows, err := r.q.Query(ctx, `
		SELECT id::text, entity_type, entity_id, action, status, details, user_id, created_at
		FROM activity_logs`+w.String()+` ORDER BY created_at DESC`+tail, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		err := rows.Scan(&l.ID, &l.EntityType, &l.EntityID, &l.Action, &l.Status, &l.Details, &l.UserID, &l.Timestamp)
		if err != nil {
			return nil, 0, fmt.Errorf("scan activity log: %w", err)
		}
		list = append(list, &l)
	}
	return list, total, rows.Err()
}
