package reader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/pkg/config"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

// fakeGateway simula el gateway: registra los cuerpos recibidos por ruta.
type fakeGateway struct {
	mu        sync.Mutex
	connected bool
	bodies    map[string]map[string]interface{}
}

func (g *fakeGateway) body(path string) map[string]interface{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bodies[path]
}

func (g *fakeGateway) handler() http.Handler {
	mux := http.NewServeMux()
	locked := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			g.mu.Lock()
			defer g.mu.Unlock()
			h(w, r)
		}
	}
	record := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		g.bodies[r.URL.Path] = body
	}
	mux.HandleFunc("/api/nation-rfid/connect", locked(func(w http.ResponseWriter, r *http.Request) {
		record(w, r)
		g.connected = true
	}))
	mux.HandleFunc("/api/nation-rfid/disconnect", locked(func(w http.ResponseWriter, r *http.Request) {
		g.connected = false
	}))
	mux.HandleFunc("/api/nation-rfid/get-antenna-power", locked(func(w http.ResponseWriter, r *http.Request) {
		if !g.connected {
			http.Error(w, "reader not connected", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"antennaPowers":{"2":"20","1":30}}`))
	}))
	mux.HandleFunc("/api/nation-rfid/get-epc-baseband", locked(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"baseSpeed":255,"session":1,"qValue":4,"inventoryFlag":2}`))
	}))
	mux.HandleFunc("/api/nation-rfid/get-frequency-range", locked(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"frequencyRangeIndex":3}`))
	}))
	mux.HandleFunc("/api/nation-rfid/set-antenna-power", locked(record))
	mux.HandleFunc("/api/nation-rfid/set-frequency-range", locked(record))
	mux.HandleFunc("/api/nation-rfid/start", locked(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	return mux
}

func newTestClient(t *testing.T) (*Client, *fakeGateway) {
	g := &fakeGateway{bodies: map[string]map[string]interface{}{}}
	srv := httptest.NewServer(g.handler())
	t.Cleanup(srv.Close)
	c := NewClient(config.ReaderConfig{GatewayURL: srv.URL + "/api/nation-rfid/", Timeout: time.Second}, logger.Nop())
	return c, g
}

func TestClient_ConnectYStatus(t *testing.T) {
	c, g := newTestClient(t)
	ctx := context.Background()

	st, err := c.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.Connected, "400 del gateway = desconectado")

	require.NoError(t, c.Connect(ctx, "COM3", 115200))
	assert.Equal(t, "COM3", g.body("/api/nation-rfid/connect")["ComPort"])
	assert.EqualValues(t, 115200, g.body("/api/nation-rfid/connect")["BaudRate"])

	st, err = c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.ReaderStatus{Connected: true, ComPort: "COM3", BaudRate: 115200}, st)

	require.NoError(t, c.Disconnect(ctx))
	st, err = c.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.Connected)
}

func TestClient_Lecturas(t *testing.T) {
	c, g := newTestClient(t)
	ctx := context.Background()
	g.mu.Lock()
	g.connected = true
	g.mu.Unlock()

	b, err := c.GetBaseband(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Baseband{BaseSpeed: 255, Session: 1, QValue: 4, InventoryFlag: 2}, b)

	fr, err := c.GetFrequencyRange(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FCC 902~928MHz", fr.Label)

	powers, err := c.GetAntennaPower(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.AntennaPower{{Port: 1, Power: 30}, {Port: 2, Power: 20}}, powers)
}

func TestClient_Escrituras(t *testing.T) {
	c, g := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetAntennaPower(ctx, []entity.AntennaPower{{Port: 1, Power: 25}}))
	assert.Equal(t, map[string]interface{}{"1": float64(25)}, g.body("/api/nation-rfid/set-antenna-power")["PowerSettings"])

	require.NoError(t, c.SetFrequencyRange(ctx, 9))
	assert.EqualValues(t, 9, g.body("/api/nation-rfid/set-frequency-range")["FrequencyRangeIndex"])
}

func TestClient_ErroresEnvueltos(t *testing.T) {
	c, _ := newTestClient(t)
	err := c.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrReaderUnavailable)

	down := NewClient(config.ReaderConfig{GatewayURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}, logger.Nop())
	_, err = down.Status(context.Background())
	assert.ErrorIs(t, err, domain.ErrReaderUnavailable)
}
