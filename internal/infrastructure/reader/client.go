// Package reader es el cliente HTTP del gateway que controla el lector RFID físico.
package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"

	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
	"github.com/jhoicas/tienda-rfid-api/internal/domain"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/pkg/config"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

var _ rfid.ReaderGateway = (*Client)(nil)

// Client implementa rfid.ReaderGateway. Todo fallo de red o respuesta no 2xx
// se devuelve envuelto en domain.ErrReaderUnavailable.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger

	mu       sync.Mutex
	comPort  string
	baudRate int
}

func NewClient(cfg config.ReaderConfig, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.GatewayURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Component("reader"),
	}
}

// statusError respuesta no 2xx del gateway.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gateway respondió %d: %s", e.code, e.body)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("reader: serializar %s: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("reader: construir request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("gateway inaccesible")
		return fmt.Errorf("%w: %v", domain.ErrReaderUnavailable, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: leer respuesta: %v", domain.ErrReaderUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("gateway rechazó la operación")
		return fmt.Errorf("%w: %w", domain.ErrReaderUnavailable, se)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: respuesta inválida en %s: %v", domain.ErrReaderUnavailable, path, err)
	}
	return nil
}

func (c *Client) Connect(ctx context.Context, comPort string, baudRate int) error {
	in := map[string]interface{}{"ComPort": comPort, "BaudRate": baudRate}
	if err := c.do(ctx, http.MethodPost, "/connect", in, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.comPort, c.baudRate = comPort, baudRate
	c.mu.Unlock()
	return nil
}

func (c *Client) Disconnect(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/disconnect", nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.comPort, c.baudRate = "", 0
	c.mu.Unlock()
	return nil
}

func (c *Client) Start(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/start", nil, nil)
}

func (c *Client) Stop(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/stop", nil, nil)
}

// Status consulta la potencia de antenas: el gateway responde 400 si no hay lector conectado.
func (c *Client) Status(ctx context.Context) (entity.ReaderStatus, error) {
	err := c.do(ctx, http.MethodGet, "/get-antenna-power", nil, nil)
	var se *statusError
	switch {
	case err == nil:
		c.mu.Lock()
		defer c.mu.Unlock()
		return entity.ReaderStatus{Connected: true, ComPort: c.comPort, BaudRate: c.baudRate}, nil
	case errors.As(err, &se) && se.code == http.StatusBadRequest:
		return entity.ReaderStatus{Connected: false}, nil
	default:
		return entity.ReaderStatus{}, err
	}
}

type basebandWire struct {
	BaseSpeed     int `json:"baseSpeed"`
	Session       int `json:"session"`
	QValue        int `json:"qValue"`
	InventoryFlag int `json:"inventoryFlag"`
}

func (c *Client) GetBaseband(ctx context.Context) (entity.Baseband, error) {
	var w basebandWire
	if err := c.do(ctx, http.MethodGet, "/get-epc-baseband", nil, &w); err != nil {
		return entity.Baseband{}, err
	}
	return entity.Baseband{BaseSpeed: w.BaseSpeed, QValue: w.QValue, Session: w.Session, InventoryFlag: w.InventoryFlag}, nil
}

func (c *Client) SetBaseband(ctx context.Context, b entity.Baseband) error {
	w := basebandWire{BaseSpeed: b.BaseSpeed, Session: b.Session, QValue: b.QValue, InventoryFlag: b.InventoryFlag}
	return c.do(ctx, http.MethodPost, "/set-epc-baseband", w, nil)
}

func (c *Client) GetFrequencyRange(ctx context.Context) (entity.FrequencyRange, error) {
	var w struct {
		FrequencyRangeIndex int `json:"frequencyRangeIndex"`
	}
	if err := c.do(ctx, http.MethodGet, "/get-frequency-range", nil, &w); err != nil {
		return entity.FrequencyRange{}, err
	}
	return entity.FrequencyRange{Index: w.FrequencyRangeIndex, Label: entity.FrequencyLabels[w.FrequencyRangeIndex]}, nil
}

func (c *Client) SetFrequencyRange(ctx context.Context, index int) error {
	return c.do(ctx, http.MethodPost, "/set-frequency-range", map[string]int{"FrequencyRangeIndex": index}, nil)
}

// GetAntennaPower el gateway indexa por puerto como string ("1".."4"); los valores
// pueden llegar como número o texto.
func (c *Client) GetAntennaPower(ctx context.Context) ([]entity.AntennaPower, error) {
	var w struct {
		AntennaPowers map[string]interface{} `json:"antennaPowers"`
	}
	if err := c.do(ctx, http.MethodGet, "/get-antenna-power", nil, &w); err != nil {
		return nil, err
	}
	out := make([]entity.AntennaPower, 0, len(w.AntennaPowers))
	for k, v := range w.AntennaPowers {
		port, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		power, err := cast.ToIntE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: potencia inválida en antena %s", domain.ErrReaderUnavailable, k)
		}
		out = append(out, entity.AntennaPower{Port: port, Power: power})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out, nil
}

func (c *Client) SetAntennaPower(ctx context.Context, powers []entity.AntennaPower) error {
	settings := make(map[string]int, len(powers))
	for _, p := range powers {
		settings[strconv.Itoa(p.Port)] = p.Power
	}
	return c.do(ctx, http.MethodPost, "/set-antenna-power", map[string]interface{}{"PowerSettings": settings}, nil)
}
