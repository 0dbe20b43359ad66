package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-rfid-api/internal/application/dto"
	"github.com/jhoicas/tienda-rfid-api/internal/application/rfid"
	"github.com/jhoicas/tienda-rfid-api/internal/application/usecase"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/entity"
	"github.com/jhoicas/tienda-rfid-api/internal/domain/repository"
	apphttp "github.com/jhoicas/tienda-rfid-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-rfid-api/pkg/logger"
)

// memCategories repositorio de categorías en memoria.
type memCategories struct {
	mu       sync.Mutex
	items    map[string]*entity.Category
	products map[string]int
}

func (m *memCategories) Create(_ context.Context, c *entity.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *memCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Update(_ context.Context, c *entity.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[c.ID] = c
	return nil
}

func (m *memCategories) List(context.Context, repository.ListFilter) ([]*entity.Category, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Category, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *memCategories) CountProducts(_ context.Context, id string) (int, error) {
	return m.products[id], nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

type testServer struct {
	app        *fiber.App
	categories *memCategories
	hub        *rfid.Hub
}

func newTestServer() *testServer {
	cats := &memCategories{items: map[string]*entity.Category{}, products: map[string]int{}}
	hub := rfid.NewHub(nil, 8, logger.Nop())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC: usecase.NewCategoryUseCase(cats, nil),
		Hub:        hub,
		Log:        logger.Nop(),
		JWTSecret:  testJWTSecret,
	})
	return &testServer{app: app, categories: cats, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, role, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestCategoryRoutes_CicloCompleto(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodPost, "/api/categories", "employee", `{"name":"Camisetas","description":"Algodón"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.CategoryResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Camisetas", created.Name)
	require.NotEmpty(t, created.ID)

	resp, body = s.do(t, http.MethodPost, "/api/categories", "employee", `{"name":"camisetas","description":"otra"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE")

	resp, body = s.do(t, http.MethodGet, "/api/categories?limit=5", "employee", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.CategoryListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, 5, list.Page.Limit)

	s.categories.products[created.ID] = 2
	resp, body = s.do(t, http.MethodDelete, "/api/categories/"+created.ID, "admin", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "CONFLICT")

	s.categories.products[created.ID] = 0
	resp, _ = s.do(t, http.MethodDelete, "/api/categories/"+created.ID, "admin", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/categories/"+created.ID, "admin", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestCategoryRoutes_Validacion(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodPost, "/api/categories", "admin", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")

	resp, body = s.do(t, http.MethodPost, "/api/categories", "admin", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_BODY")
}

func TestRouter_Permisos(t *testing.T) {
	s := newTestServer()

	resp, _ := s.do(t, http.MethodGet, "/api/categories", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := s.do(t, http.MethodGet, "/api/users", "employee", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "FORBIDDEN")

	resp, _ = s.do(t, http.MethodGet, "/api/activity-logs", "employee", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/categories", "guest", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestActivityLogs_FechaInvalida(t *testing.T) {
	s := newTestServer()
	resp, body := s.do(t, http.MethodGet, "/api/activity-logs?startDate=31-12-2024", "admin", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestRFIDSession_LecturasYReset(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodPost, "/api/rfid/reads", "employee",
		`[{"epc":"e200 0017","antenna":1,"rssi":-55},{"epc":"E2000017","antenna":2},{"epc":"AB01"}]`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))
	var ing dto.IngestResponse
	require.NoError(t, json.Unmarshal(body, &ing))
	assert.Equal(t, 3, ing.Accepted)
	assert.Equal(t, 2, ing.Distinct)

	resp, body = s.do(t, http.MethodGet, "/api/rfid/session?required=2", "employee", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap dto.ScanSnapshotResponse
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, 2, snap.Distinct)
	assert.Equal(t, 3, snap.TotalReads)
	assert.Equal(t, "exact", snap.Check)
	assert.Equal(t, 0, snap.Unassigned)

	resp, body = s.do(t, http.MethodPost, "/api/rfid/reads", "employee", `[{"epc":"no-hex!"}]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")

	resp, _ = s.do(t, http.MethodDelete, "/api/rfid/session", "employee", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, s.hub.Snapshot(0).Distinct)
}

func TestScanSocket_SinUpgradeRetorna426(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodGet, "/ws/scan", "employee", "")
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
	assert.Contains(t, string(body), "UPGRADE_REQUIRED")

	// El token también se acepta por query.
	tok := strings.TrimPrefix(tokenForRole(t, "employee"), "Bearer ")
	resp, _ = s.do(t, http.MethodGet, "/ws/scan/ingest?token="+tok, "", "")
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/ws/scan", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
