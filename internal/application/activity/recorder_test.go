package activity

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

type fakeLogRepo struct {
	created   []*entity.ActivityLog
	createErr error
	lastList  repository.ActivityLogFilter
}

func (f *fakeLogRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, l)
	return nil
}

func (f *fakeLogRepo) List(_ context.Context, filter repository.ActivityLogFilter) ([]*entity.ActivityLog, int, error) {
	f.lastList = filter
	return f.created, 45, nil
}

func TestRecord_ExitoYFallo(t *testing.T) {
	repo := &fakeLogRepo{}
	r := NewRecorder(repo, logger.Nop())
	ctx := WithActor(context.Background(), "u-1")

	r.Record(ctx, Entry{EntityType: entity.ActivityProduct, EntityID: "p1", Action: "create", Details: "Camisa"})
	r.Record(ctx, Entry{EntityType: entity.ActivityProduct, EntityID: "p1", Action: "delete", Err: domain.ErrConflict})

	require.Len(t, repo.created, 2)
	assert.Equal(t, entity.ActivitySuccess, repo.created[0].Status)
	assert.Equal(t, "u-1", repo.created[0].UserID)
	assert.Equal(t, entity.ActivityFailed, repo.created[1].Status)
	assert.Contains(t, repo.created[1].Details, domain.ErrConflict.Error())
}

func TestRecord_ErrorDeRepoNoSePropaga(t *testing.T) {
	var buf bytes.Buffer
	repo := &fakeLogRepo{createErr: errors.New("db caída")}
	r := NewRecorder(repo, logger.New(logger.Config{Env: "production", Out: &buf}))

	assert.NotPanics(t, func() {
		r.Record(context.Background(), Entry{EntityType: entity.ActivityEPC, Action: "assign"})
	})
	assert.Contains(t, buf.String(), "no se pudo registrar la actividad")
}

func TestRecord_RecorderNil(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() { r.Record(context.Background(), Entry{}) })
}

func TestList_PaginaDe20YFiltros(t *testing.T) {
	repo := &fakeLogRepo{}
	r := NewRecorder(repo, logger.Nop())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	out, err := r.List(context.Background(), dto.ActivityLogListRequest{
		EntityType: entity.ActivityInvoice, Page: 3, Keyword: " Hóa Đơn ", StartDate: &start, EndDate: &end,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, out.Total)
	assert.Equal(t, 3, out.Page)
	assert.Equal(t, 40, repo.lastList.Offset)
	assert.Equal(t, PageSize, repo.lastList.Limit)
	assert.Equal(t, "hoa don", repo.lastList.Keyword)
	assert.Equal(t, entity.ActivityInvoice, repo.lastList.EntityType)
}

func TestList_Validaciones(t *testing.T) {
	r := NewRecorder(&fakeLogRepo{}, logger.Nop())
	_, err := r.List(context.Background(), dto.ActivityLogListRequest{EntityType: "warehouse"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = r.List(context.Background(), dto.ActivityLogListRequest{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
