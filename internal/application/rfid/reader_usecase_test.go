package rfid

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

// fakeGateway cuenta las llamadas; err se devuelve en todas.
type fakeGateway struct {
	calls     int
	err       error
	connected bool
	baseband  entity.Baseband
	freq      int
	powers    []entity.AntennaPower
}

func (g *fakeGateway) call() error {
	g.calls++
	return g.err
}
func (g *fakeGateway) Connect(context.Context, string, int) error {
	if err := g.call(); err != nil {
		return err
	}
	g.connected = true
	return nil
}
func (g *fakeGateway) Disconnect(context.Context) error { return g.call() }
func (g *fakeGateway) Start(context.Context) error      { return g.call() }
func (g *fakeGateway) Stop(context.Context) error       { return g.call() }
func (g *fakeGateway) Status(context.Context) (entity.ReaderStatus, error) {
	return entity.ReaderStatus{Connected: g.connected}, g.call()
}
func (g *fakeGateway) GetBaseband(context.Context) (entity.Baseband, error) {
	return g.baseband, g.call()
}
func (g *fakeGateway) SetBaseband(_ context.Context, b entity.Baseband) error {
	g.baseband = b
	return g.call()
}
func (g *fakeGateway) GetFrequencyRange(context.Context) (entity.FrequencyRange, error) {
	return entity.FrequencyRange{Index: g.freq}, g.call()
}
func (g *fakeGateway) SetFrequencyRange(_ context.Context, i int) error {
	g.freq = i
	return g.call()
}
func (g *fakeGateway) GetAntennaPower(context.Context) ([]entity.AntennaPower, error) {
	return g.powers, g.call()
}
func (g *fakeGateway) SetAntennaPower(_ context.Context, p []entity.AntennaPower) error {
	g.powers = p
	return g.call()
}

func newReaderFixture() (*ReaderUseCase, *fakeGateway, *Hub) {
	gw := &fakeGateway{}
	hub := NewHub(nil, 4, logger.Nop())
	return NewReaderUseCase(gw, hub), gw, hub
}

func TestReader_ValidaSinLlamarAlGateway(t *testing.T) {
	uc, gw, _ := newReaderFixture()
	ctx := context.Background()

	_, err := uc.Connect(ctx, dto.ReaderConnectRequest{BaudRate: 115200})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Connect(ctx, dto.ReaderConnectRequest{ComPort: "COM3"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	for _, b := range []dto.BasebandDTO{
		{BaseSpeed: 4},
		{BaseSpeed: 255, QValue: 16},
		{BaseSpeed: 1, Session: 4},
		{BaseSpeed: 1, InventoryFlag: 3},
	} {
		_, err = uc.SetBaseband(ctx, b)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", b)
	}

	_, err = uc.SetFrequencyRange(ctx, dto.FrequencyRangeDTO{Index: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	for _, p := range []dto.AntennaPowerList{
		{},
		{Antennas: []dto.AntennaPowerDTO{{Port: 5, Power: 10}}},
		{Antennas: []dto.AntennaPowerDTO{{Port: 1, Power: 34}}},
		{Antennas: []dto.AntennaPowerDTO{{Port: 1, Power: 10}, {Port: 1, Power: 12}}},
	} {
		_, err = uc.SetAntennaPower(ctx, p)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 0, gw.calls)
}

func TestReader_ConfiguracionValida(t *testing.T) {
	uc, gw, _ := newReaderFixture()
	ctx := context.Background()

	st, err := uc.Connect(ctx, dto.ReaderConnectRequest{ComPort: "COM3", BaudRate: 115200})
	require.NoError(t, err)
	assert.True(t, st.Connected)

	_, err = uc.SetBaseband(ctx, dto.BasebandDTO{BaseSpeed: 255, QValue: 4, Session: 1, InventoryFlag: 2})
	require.NoError(t, err)
	assert.Equal(t, 255, gw.baseband.BaseSpeed)

	fr, err := uc.SetFrequencyRange(ctx, dto.FrequencyRangeDTO{Index: 9})
	require.NoError(t, err)
	assert.Equal(t, "ALL_BAND 802.75~998.75MHz", fr.Label)

	gw.powers = []entity.AntennaPower{{Port: 2, Power: 20}, {Port: 1, Power: 30}}
	list, err := uc.GetAntennaPower(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Antennas[0].Port)

	opts := uc.FrequencyOptions()
	require.Len(t, opts, 6)
	assert.Equal(t, 9, opts[5].Index)
}

func TestReader_StartStopMarcanElHub(t *testing.T) {
	uc, gw, hub := newReaderFixture()
	ctx := context.Background()
	gw.connected = true

	require.NoError(t, uc.Start(ctx))
	assert.True(t, hub.Reading())
	st, err := uc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Reading)

	require.NoError(t, uc.Stop(ctx))
	assert.False(t, hub.Reading())

	gw.err = fmt.Errorf("%w: timeout", domain.ErrReaderUnavailable)
	err = uc.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrReaderUnavailable)
	assert.False(t, hub.Reading(), "si el gateway falla no se marca lectura")
}
