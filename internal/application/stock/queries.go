package stock

import (
	"context"
	"strings"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// QueryUseCase proyecciones de solo lectura sobre inventario e historial.
// Usa repositorios atados al pool (fuera de transacción).
type QueryUseCase struct {
	inventoryRepo repository.InventoryRepository
	historyRepo   repository.StockHistoryRepository
}

// NewQueryUseCase construye las consultas de inventario/historial.
func NewQueryUseCase(inventoryRepo repository.InventoryRepository, historyRepo repository.StockHistoryRepository) *QueryUseCase {
	return &QueryUseCase{inventoryRepo: inventoryRepo, historyRepo: historyRepo}
}

// ListInventory devuelve todas las filas de inventario.
func (uc *QueryUseCase) ListInventory(ctx context.Context) ([]*entity.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return uc.inventoryRepo.ListAll()
}

// ListInventoryByProduct devuelve el inventario de un producto en todas las bodegas.
func (uc *QueryUseCase) ListInventoryByProduct(ctx context.Context, productID string) ([]*entity.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return uc.inventoryRepo.ListByProduct(productID)
}

// ListInventoryByWarehouse devuelve el inventario de una bodega.
func (uc *QueryUseCase) ListInventoryByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return uc.inventoryRepo.ListByWarehouse(warehouseID)
}

// ListHistory devuelve el historial completo, paginado.
func (uc *QueryUseCase) ListHistory(ctx context.Context, page dto.PageRequest) ([]*entity.StockHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.historyRepo.ListAll(page.Limit, page.Offset)
}

// ListHistoryByProduct devuelve el historial de un producto, paginado.
func (uc *QueryUseCase) ListHistoryByProduct(ctx context.Context, productID string, page dto.PageRequest) ([]*entity.StockHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.historyRepo.ListByProduct(productID, page.Limit, page.Offset)
}

// ListHistoryByWarehouse devuelve el historial de una bodega, paginado.
func (uc *QueryUseCase) ListHistoryByWarehouse(ctx context.Context, warehouseID string, page dto.PageRequest) ([]*entity.StockHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.historyRepo.ListByWarehouse(warehouseID, page.Limit, page.Offset)
}

// ListHistoryByType devuelve el historial de un tipo de ajuste, paginado.
// Solo acepta los tipos del libro mayor (ADD, REMOVE).
func (uc *QueryUseCase) ListHistoryByType(ctx context.Context, adjustmentType string, page dto.PageRequest) ([]*entity.StockHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if adjustmentType != entity.AdjustmentADD && adjustmentType != entity.AdjustmentREMOVE {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	return uc.historyRepo.ListByType(adjustmentType, page.Limit, page.Offset)
}

// ListHistoryByEmployee devuelve los ajustes realizados por un empleado, paginados.
func (uc *QueryUseCase) ListHistoryByEmployee(ctx context.Context, email string, page dto.PageRequest) ([]*entity.StockHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(email) == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	return uc.historyRepo.ListByEmployee(email, page.Limit, page.Offset)
}

// ListHistoryByRange devuelve el historial entre dos fechas, paginado.
func (uc *QueryUseCase) ListHistoryByRange(ctx context.Context, from, to time.Time, page dto.PageRequest) ([]*entity.StockHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.historyRepo.ListByRange(from, to, page.Limit, page.Offset)
}
