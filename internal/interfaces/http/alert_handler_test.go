package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/alert"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	apphttp "github.com/tu-usuario/stock-ledger/internal/interfaces/http"
	"github.com/tu-usuario/stock-ledger/pkg/keymutex"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para el handler de alertas
// ──────────────────────────────────────────────────────────────────────────────

type stubAlertRepo struct {
	alerts map[string]*entity.LowStockAlert
}

func (r *stubAlertRepo) FindActive(productID, warehouseID string) (*entity.LowStockAlert, error) {
	for _, a := range r.alerts {
		if a.ProductID == productID && a.WarehouseID == warehouseID && a.Status == entity.AlertStatusActive {
			return a, nil
		}
	}
	return nil, nil
}

func (r *stubAlertRepo) FindByID(id string) (*entity.LowStockAlert, error) {
	return r.alerts[id], nil
}

func (r *stubAlertRepo) Save(a *entity.LowStockAlert) error {
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

func (r *stubAlertRepo) ListActive(limit, offset int) ([]*entity.LowStockAlert, error) {
	var out []*entity.LowStockAlert
	for _, a := range r.alerts {
		if a.Status == entity.AlertStatusActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAlertRepo) ListAll(limit, offset int) ([]*entity.LowStockAlert, error) {
	var out []*entity.LowStockAlert
	for _, a := range r.alerts {
		out = append(out, a)
	}
	return out, nil
}

type stubProductRepo struct{}

func (stubProductRepo) Create(*entity.Product) error             { return nil }
func (stubProductRepo) GetByID(string) (*entity.Product, error)  { return nil, nil }
func (stubProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (stubProductRepo) Update(*entity.Product) error             { return nil }
func (stubProductRepo) List(int, int) ([]*entity.Product, error) { return nil, nil }
func (stubProductRepo) Delete(string) error                      { return nil }

type stubWarehouseRepo struct{}

func (stubWarehouseRepo) Create(*entity.Warehouse) error             { return nil }
func (stubWarehouseRepo) GetByID(string) (*entity.Warehouse, error)  { return nil, nil }
func (stubWarehouseRepo) Update(*entity.Warehouse) error             { return nil }
func (stubWarehouseRepo) List(int, int) ([]*entity.Warehouse, error) { return nil, nil }
func (stubWarehouseRepo) Delete(string) error                        { return nil }

func jsonDecode(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func buildAlertApp(repo *stubAlertRepo) *fiber.App {
	engine := alert.NewEngine(repo, stubProductRepo{}, stubWarehouseRepo{}, keymutex.New())
	handler := apphttp.NewAlertHandler(engine)

	app := fiber.New()
	app.Get("/api/alerts", handler.ListAll)
	app.Get("/api/alerts/active", handler.ListActive)
	app.Post("/api/alerts/:id/resolve", handler.Resolve)
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertResolve_AlertaActiva_Retorna204(t *testing.T) {
	repo := &stubAlertRepo{alerts: map[string]*entity.LowStockAlert{
		"a-1": {ID: "a-1", ProductID: "p-1", WarehouseID: "w-1", Status: entity.AlertStatusActive, CreatedAt: time.Now()},
	}}
	app := buildAlertApp(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/alerts/a-1/resolve", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, entity.AlertStatusResolved, repo.alerts["a-1"].Status)
}

// Resolver dos veces sigue siendo 204: la operación es idempotente.
func TestAlertResolve_YaResuelta_Retorna204(t *testing.T) {
	now := time.Now()
	repo := &stubAlertRepo{alerts: map[string]*entity.LowStockAlert{
		"a-1": {ID: "a-1", Status: entity.AlertStatusResolved, CreatedAt: now, ResolvedAt: &now},
	}}
	app := buildAlertApp(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/alerts/a-1/resolve", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAlertResolve_Inexistente_Retorna404(t *testing.T) {
	app := buildAlertApp(&stubAlertRepo{alerts: map[string]*entity.LowStockAlert{}})

	req := httptest.NewRequest(http.MethodPost, "/api/alerts/no-existe/resolve", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestAlertListActive_SoloIncluyeActivas(t *testing.T) {
	now := time.Now()
	repo := &stubAlertRepo{alerts: map[string]*entity.LowStockAlert{
		"a-1": {ID: "a-1", Status: entity.AlertStatusActive, CreatedAt: now},
		"a-2": {ID: "a-2", Status: entity.AlertStatusResolved, CreatedAt: now, ResolvedAt: &now},
	}}
	app := buildAlertApp(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/active", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]interface{}
	require.NoError(t, jsonDecode(resp, &body))
	require.Len(t, body, 1)
	assert.Equal(t, "a-1", body[0]["id"])
}

func TestAlertListAll_IncluyeResueltas(t *testing.T) {
	now := time.Now()
	repo := &stubAlertRepo{alerts: map[string]*entity.LowStockAlert{
		"a-1": {ID: "a-1", Status: entity.AlertStatusActive, CreatedAt: now},
		"a-2": {ID: "a-2", Status: entity.AlertStatusResolved, CreatedAt: now, ResolvedAt: &now},
	}}
	app := buildAlertApp(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]interface{}
	require.NoError(t, jsonDecode(resp, &body))
	assert.Len(t, body, 2)
}
