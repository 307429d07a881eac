package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/keymutex"
)

// Key forma la clave de exclusión por (producto, bodega), compartida entre el
// mutador de stock y el scheduler de reconciliación.
func Key(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

// Engine mantiene el ciclo de vida de las alertas de stock bajo: creación,
// deduplicación por clave, resolución y reconciliación. Evaluate es idempotente:
// puede invocarse cualquier número de veces con los mismos datos sin duplicar alertas.
type Engine struct {
	alertRepo     repository.AlertRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	keys          *keymutex.KeyMutex
	now           func() time.Time
}

// NewEngine construye el motor de alertas. keys es el mismo KeyMutex que usan
// el mutador de stock y el scheduler; Evaluate asume que el llamador ya tiene
// la clave tomada, mientras que ManualResolve la toma por sí mismo.
func NewEngine(
	alertRepo repository.AlertRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	keys *keymutex.KeyMutex,
) *Engine {
	return &Engine{
		alertRepo:     alertRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		keys:          keys,
		now:           time.Now,
	}
}

// Evaluate reconcilia el estado de alerta de una clave contra el stock actual.
//   - minStockLevel nil: la clave no tiene alerta configurada; si existe una alerta
//     activa se resuelve (el umbral dejó de estar configurado).
//   - currentStock < min: refresca la alerta activa en el mismo registro, o crea una
//     nueva si no existe. Nunca se crea una segunda alerta activa para la misma clave.
//   - currentStock >= min: resuelve la alerta activa si la hay.
func (e *Engine) Evaluate(ctx context.Context, productID, warehouseID string, currentStock int, minStockLevel *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := e.alertRepo.FindActive(productID, warehouseID)
	if err != nil {
		return err
	}

	if minStockLevel == nil || currentStock >= *minStockLevel {
		if existing == nil {
			return nil
		}
		existing.Resolve(e.now())
		return e.alertRepo.Save(existing)
	}

	msg := e.buildMessage(productID, warehouseID, currentStock, *minStockLevel)
	if existing != nil {
		// Refrescar en el mismo registro: la unicidad por clave se mantiene.
		existing.CurrentStock = currentStock
		existing.MinStockLevel = minStockLevel
		existing.Message = msg
		return e.alertRepo.Save(existing)
	}

	return e.alertRepo.Save(&entity.LowStockAlert{
		ID:            uuid.New().String(),
		ProductID:     productID,
		WarehouseID:   warehouseID,
		CurrentStock:  currentStock,
		MinStockLevel: minStockLevel,
		Status:        entity.AlertStatusActive,
		Message:       msg,
		CreatedAt:     e.now(),
	})
}

// EvaluateInventory resuelve el umbral del producto y evalúa la clave del registro.
// Es el paso usado por el scheduler sobre cada fila de inventario.
func (e *Engine) EvaluateInventory(ctx context.Context, inv *entity.Inventory) error {
	product, err := e.productRepo.GetByID(inv.ProductID)
	if err != nil {
		return err
	}
	var min *int
	if product != nil {
		min = product.MinStockLevel
	}
	return e.Evaluate(ctx, inv.ProductID, inv.WarehouseID, inv.StockLevel, min)
}

// ManualResolve cierra el ciclo de alerta actual por acción del usuario. Idempotente:
// resolver una alerta ya resuelta es un no-op. No impide que una evaluación posterior
// abra una alerta nueva si la condición de stock bajo persiste.
//
// Se serializa con los ajustes de stock y el scheduler sobre la clave de la
// alerta: sin el lock, un Evaluate concurrente podría refrescar el registro
// recién resuelto y dejarlo activo de nuevo.
func (e *Engine) ManualResolve(ctx context.Context, alertID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	alert, err := e.alertRepo.FindByID(alertID)
	if err != nil {
		return err
	}
	if alert == nil {
		return domain.ErrNotFound
	}

	key := Key(alert.ProductID, alert.WarehouseID)
	e.keys.Lock(key)
	defer e.keys.Unlock(key)

	// Releer bajo el lock: el estado pudo cambiar entre el primer fetch y la
	// adquisición de la clave.
	alert, err = e.alertRepo.FindByID(alertID)
	if err != nil {
		return err
	}
	if alert == nil {
		return domain.ErrNotFound
	}
	if !alert.Active() {
		return nil
	}
	alert.Resolve(e.now())
	return e.alertRepo.Save(alert)
}

// ListActive devuelve las alertas activas, paginadas.
func (e *Engine) ListActive(ctx context.Context, page dto.PageRequest) ([]*entity.LowStockAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return e.alertRepo.ListActive(page.Limit, page.Offset)
}

// ListAll devuelve todas las alertas (activas y resueltas), paginadas.
func (e *Engine) ListAll(ctx context.Context, page dto.PageRequest) ([]*entity.LowStockAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return e.alertRepo.ListAll(page.Limit, page.Offset)
}

// buildMessage arma el resumen legible de la alerta. Si el catálogo no responde,
// se usa el ID como nombre; el mensaje no es una superficie de compatibilidad.
func (e *Engine) buildMessage(productID, warehouseID string, currentStock, minStockLevel int) string {
	productName := productID
	if p, err := e.productRepo.GetByID(productID); err == nil && p != nil {
		productName = p.Name
	}
	warehouseName := warehouseID
	if w, err := e.warehouseRepo.GetByID(warehouseID); err == nil && w != nil {
		warehouseName = w.Name
	}
	return fmt.Sprintf("Low stock: %s @ %s (%d/%d)", productName, warehouseName, currentStock, minStockLevel)
}
