package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/alert"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/stock"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/keymutex"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memInventoryRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.Inventory // por clave producto|bodega
}

func newMemInventoryRepo() *memInventoryRepo {
	return &memInventoryRepo{rows: make(map[string]*entity.Inventory)}
}

func (r *memInventoryRepo) Get(productID, warehouseID string) (*entity.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[alert.Key(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInventoryRepo) GetForUpdate(productID, warehouseID string) (*entity.Inventory, error) {
	return r.Get(productID, warehouseID)
}

func (r *memInventoryRepo) Upsert(inv *entity.Inventory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *inv
	r.rows[alert.Key(inv.ProductID, inv.WarehouseID)] = &cp
	return nil
}

func (r *memInventoryRepo) ListAll() ([]*entity.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Inventory
	for _, inv := range r.rows {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memInventoryRepo) ListByProduct(productID string) ([]*entity.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Inventory
	for _, inv := range r.rows {
		if inv.ProductID == productID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memInventoryRepo) ListByWarehouse(warehouseID string) ([]*entity.Inventory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Inventory
	for _, inv := range r.rows {
		if inv.WarehouseID == warehouseID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memHistoryRepo struct {
	mu      sync.Mutex
	entries []*entity.StockHistory
}

func newMemHistoryRepo() *memHistoryRepo { return &memHistoryRepo{} }

func (r *memHistoryRepo) Create(h *entity.StockHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *h
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memHistoryRepo) ListAll(limit, offset int) ([]*entity.StockHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.StockHistory, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *memHistoryRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockHistory
	for _, h := range r.entries {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memHistoryRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockHistory
	for _, h := range r.entries {
		if h.WarehouseID == warehouseID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memHistoryRepo) ListByType(adjustmentType string, limit, offset int) ([]*entity.StockHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockHistory
	for _, h := range r.entries {
		if h.AdjustmentType == adjustmentType {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memHistoryRepo) ListByEmployee(email string, limit, offset int) ([]*entity.StockHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockHistory
	for _, h := range r.entries {
		if h.PerformedBy == email {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memHistoryRepo) ListByRange(from, to time.Time, limit, offset int) ([]*entity.StockHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.StockHistory
	for _, h := range r.entries {
		if !h.Timestamp.Before(from) && !h.Timestamp.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

// memTxRunner emula la transacción serializando los callbacks con un mutex global
// y operando sobre los repos compartidos. Las reglas de negocio del caso de uso
// fallan antes de cualquier escritura, así que no hay rollback que emular.
type memTxRunner struct {
	mu   sync.Mutex
	inv  *memInventoryRepo
	hist *memHistoryRepo
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	histRepo repository.StockHistoryRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.inv, r.hist)
}

type memAlertRepo struct {
	mu     sync.Mutex
	alerts map[string]*entity.LowStockAlert
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{alerts: make(map[string]*entity.LowStockAlert)}
}

func (r *memAlertRepo) FindActive(productID, warehouseID string) (*entity.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ProductID == productID && a.WarehouseID == warehouseID && a.Status == entity.AlertStatusActive {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAlertRepo) FindByID(id string) (*entity.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.alerts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAlertRepo) Save(a *entity.LowStockAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

func (r *memAlertRepo) ListActive(limit, offset int) ([]*entity.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.LowStockAlert
	for _, a := range r.alerts {
		if a.Status == entity.AlertStatusActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memAlertRepo) ListAll(limit, offset int) ([]*entity.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.LowStockAlert
	for _, a := range r.alerts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.products, id); return nil }

type memWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error { r.warehouses[w.ID] = w; return nil }
func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}
func (r *memWarehouseRepo) Update(w *entity.Warehouse) error { r.warehouses[w.ID] = w; return nil }
func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		out = append(out, w)
	}
	return out, nil
}
func (r *memWarehouseRepo) Delete(id string) error { delete(r.warehouses, id); return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID   = "11111111-1111-1111-1111-111111111111"
	testWarehouseID = "22222222-2222-2222-2222-222222222222"
	testUserEmail   = "bodeguero@acme.co"
)

func intPtr(n int) *int { return &n }

type fixture struct {
	uc        *stock.UseCase
	inventory *memInventoryRepo
	history   *memHistoryRepo
	alerts    *memAlertRepo
	product   *entity.Product
}

// buildFixture arma el caso de uso completo con repos en memoria. minStockLevel
// nil desactiva las alertas para el producto de prueba.
func buildFixture(minStockLevel *int) *fixture {
	inventory := newMemInventoryRepo()
	history := newMemHistoryRepo()
	alerts := newMemAlertRepo()

	product := &entity.Product{
		ID: testProductID, SKU: "SKU-1", Name: "Tornillo 3/8", MinStockLevel: minStockLevel,
	}
	products := &memProductRepo{products: map[string]*entity.Product{product.ID: product}}
	warehouses := &memWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		testWarehouseID: {ID: testWarehouseID, Name: "Bodega Central"},
	}}

	keys := keymutex.New()
	engine := alert.NewEngine(alerts, products, warehouses, keys)
	txRunner := &memTxRunner{inv: inventory, hist: history}
	uc := stock.NewUseCase(txRunner, products, warehouses, engine, keys, logger.Nop())

	return &fixture{uc: uc, inventory: inventory, history: history, alerts: alerts, product: product}
}

func (f *fixture) level(t *testing.T) int {
	t.Helper()
	inv, err := f.inventory.Get(testProductID, testWarehouseID)
	require.NoError(t, err)
	if inv == nil {
		return 0
	}
	return inv.StockLevel
}

func (f *fixture) historyEntries(t *testing.T) []*entity.StockHistory {
	t.Helper()
	entries, err := f.history.ListAll(1000, 0)
	require.NoError(t, err)
	return entries
}

// ──────────────────────────────────────────────────────────────────────────────
// StockIn
// ──────────────────────────────────────────────────────────────────────────────

// La primera entrada de una clave crea el registro de inventario con la cantidad
// exacta y anota un único ajuste ADD.
func TestStockIn_PrimeraEntrada_CreaInventario(t *testing.T) {
	f := buildFixture(nil)

	inv, err := f.uc.StockIn(context.Background(), testProductID, testWarehouseID, 5, testUserEmail)
	require.NoError(t, err)

	assert.Equal(t, 5, inv.StockLevel)
	assert.Equal(t, 5, f.level(t))

	entries := f.historyEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AdjustmentADD, entries[0].AdjustmentType)
	assert.Equal(t, 5, entries[0].AdjustmentQuantity)
	assert.Equal(t, testUserEmail, entries[0].PerformedBy)
}

// Entradas sucesivas acumulan sobre el registro existente.
func TestStockIn_EntradasSucesivas_Acumulan(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 5, testUserEmail)
	require.NoError(t, err)
	inv, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 7, testUserEmail)
	require.NoError(t, err)

	assert.Equal(t, 12, inv.StockLevel)
	assert.Len(t, f.historyEntries(t), 2)
}

func TestStockIn_ProductoInexistente_RetornaNotFound(t *testing.T) {
	f := buildFixture(nil)
	_, err := f.uc.StockIn(context.Background(), "otro-producto", testWarehouseID, 5, testUserEmail)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockIn_BodegaInexistente_RetornaNotFound(t *testing.T) {
	f := buildFixture(nil)
	_, err := f.uc.StockIn(context.Background(), testProductID, "otra-bodega", 5, testUserEmail)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockIn_CantidadInvalida_RetornaInvalidInput(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 0, testUserEmail)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero debe rechazarse")

	_, err = f.uc.StockIn(ctx, testProductID, testWarehouseID, -3, testUserEmail)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa debe rechazarse")

	_, err = f.uc.StockIn(ctx, testProductID, testWarehouseID, 5, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "performed_by en blanco debe rechazarse")

	assert.Empty(t, f.historyEntries(t), "las entradas rechazadas no anotan historial")
}

// ──────────────────────────────────────────────────────────────────────────────
// StockOut
// ──────────────────────────────────────────────────────────────────────────────

func TestStockOut_ReduceElStock(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 10, testUserEmail)
	require.NoError(t, err)

	inv, err := f.uc.StockOut(ctx, testProductID, testWarehouseID, 4, testUserEmail)
	require.NoError(t, err)
	assert.Equal(t, 6, inv.StockLevel)

	entries := f.historyEntries(t)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AdjustmentREMOVE, entries[1].AdjustmentType)
	assert.Equal(t, 4, entries[1].AdjustmentQuantity)
}

// Una salida sin inventario previo para la clave es NotFound, no una creación en cero.
func TestStockOut_SinInventario_RetornaNotFound(t *testing.T) {
	f := buildFixture(nil)
	_, err := f.uc.StockOut(context.Background(), testProductID, testWarehouseID, 1, testUserEmail)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Stock insuficiente: el error tipado lleva disponible y solicitado, y ni el
// stock ni el historial se tocan.
func TestStockOut_StockInsuficiente_NoDejaEstadoParcial(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 3, testUserEmail)
	require.NoError(t, err)

	_, err = f.uc.StockOut(ctx, testProductID, testWarehouseID, 8, testUserEmail)
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 8, insufficient.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 3, f.level(t), "el stock debe quedar intacto")
	assert.Len(t, f.historyEntries(t), 1, "la salida rechazada no anota historial")
}

// Sacar exactamente el stock disponible es válido y deja el nivel en cero.
func TestStockOut_SalidaExacta_DejaCero(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 5, testUserEmail)
	require.NoError(t, err)
	inv, err := f.uc.StockOut(ctx, testProductID, testWarehouseID, 5, testUserEmail)
	require.NoError(t, err)

	assert.Equal(t, 0, inv.StockLevel)
}

// ──────────────────────────────────────────────────────────────────────────────
// Integración con el motor de alertas
// ──────────────────────────────────────────────────────────────────────────────

// Una salida que deja el stock bajo el umbral dispara la alerta sincrónicamente.
func TestStockOut_BajoUmbral_DisparaAlerta(t *testing.T) {
	f := buildFixture(intPtr(10))
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 20, testUserEmail)
	require.NoError(t, err)
	_, err = f.uc.StockOut(ctx, testProductID, testWarehouseID, 15, testUserEmail)
	require.NoError(t, err)

	list, err := f.alerts.ListActive(100, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].CurrentStock)
	assert.Equal(t, 10, *list[0].MinStockLevel)
}

// Una entrada que recupera el stock por encima del umbral resuelve la alerta.
func TestStockIn_RecuperaStock_ResuelveAlerta(t *testing.T) {
	f := buildFixture(intPtr(10))
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 5, testUserEmail)
	require.NoError(t, err)
	list, err := f.alerts.ListActive(100, 0)
	require.NoError(t, err)
	require.Len(t, list, 1, "la primera entrada por debajo del umbral crea alerta")

	_, err = f.uc.StockIn(ctx, testProductID, testWarehouseID, 20, testUserEmail)
	require.NoError(t, err)

	list, err = f.alerts.ListActive(100, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "recuperado el stock la alerta debe resolverse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consistencia del libro mayor y concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// El nivel de stock siempre es igual a la suma de ADD menos la suma de REMOVE.
func TestLedger_SumaDeAjustesIgualAlNivel(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	ops := []struct {
		out bool
		qty int
	}{
		{false, 10}, {false, 7}, {true, 4}, {false, 2}, {true, 9}, {false, 1},
	}
	for _, op := range ops {
		var err error
		if op.out {
			_, err = f.uc.StockOut(ctx, testProductID, testWarehouseID, op.qty, testUserEmail)
		} else {
			_, err = f.uc.StockIn(ctx, testProductID, testWarehouseID, op.qty, testUserEmail)
		}
		require.NoError(t, err)
	}

	sum := 0
	for _, h := range f.historyEntries(t) {
		if h.AdjustmentType == entity.AdjustmentADD {
			sum += h.AdjustmentQuantity
		} else {
			sum -= h.AdjustmentQuantity
		}
	}
	assert.Equal(t, f.level(t), sum, "el historial debe reconstruir el nivel actual")
}

// ──────────────────────────────────────────────────────────────────────────────
// Proyecciones de historial
// ──────────────────────────────────────────────────────────────────────────────

// El filtro por tipo devuelve solo los ajustes de ese tipo y rechaza tipos ajenos
// al libro mayor.
func TestListHistoryByType_FiltraPorTipo(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 10, testUserEmail)
	require.NoError(t, err)
	_, err = f.uc.StockOut(ctx, testProductID, testWarehouseID, 4, testUserEmail)
	require.NoError(t, err)

	queries := stock.NewQueryUseCase(f.inventory, f.history)

	adds, err := queries.ListHistoryByType(ctx, entity.AdjustmentADD, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, adds, 1)
	assert.Equal(t, entity.AdjustmentADD, adds[0].AdjustmentType)

	removes, err := queries.ListHistoryByType(ctx, entity.AdjustmentREMOVE, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, removes, 1)

	_, err = queries.ListHistoryByType(ctx, "TRANSFER", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipos fuera de ADD/REMOVE deben rechazarse")
}

// El filtro por empleado devuelve solo los ajustes de ese email.
func TestListHistoryByEmployee_FiltraPorEmail(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, 10, testUserEmail)
	require.NoError(t, err)
	_, err = f.uc.StockIn(ctx, testProductID, testWarehouseID, 2, "gerente@acme.co")
	require.NoError(t, err)

	queries := stock.NewQueryUseCase(f.inventory, f.history)

	list, err := queries.ListHistoryByEmployee(ctx, testUserEmail, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, testUserEmail, list[0].PerformedBy)

	_, err = queries.ListHistoryByEmployee(ctx, "   ", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "email en blanco debe rechazarse")
}

// Salidas concurrentes sobre la misma clave: nunca stock negativo y el historial
// refleja exactamente las salidas aceptadas.
func TestStockOut_Concurrente_NuncaNegativo(t *testing.T) {
	f := buildFixture(nil)
	ctx := context.Background()

	const initial = 50
	_, err := f.uc.StockIn(ctx, testProductID, testWarehouseID, initial, testUserEmail)
	require.NoError(t, err)

	const workers = 30
	var wg sync.WaitGroup
	accepted := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.uc.StockOut(ctx, testProductID, testWarehouseID, 3, testUserEmail); err == nil {
				accepted <- 3
			}
		}()
	}
	wg.Wait()
	close(accepted)

	removed := 0
	for qty := range accepted {
		removed += qty
	}

	level := f.level(t)
	assert.GreaterOrEqual(t, level, 0, "el stock nunca puede ser negativo")
	assert.Equal(t, initial-removed, level, "cada salida aceptada descuenta exactamente su cantidad")
	assert.Len(t, f.historyEntries(t), 1+removed/3, "solo las salidas aceptadas anotan historial")
}
