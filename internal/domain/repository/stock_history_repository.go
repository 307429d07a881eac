package repository

import (
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockHistoryRepository define el puerto de persistencia del historial de ajustes (append-only).
type StockHistoryRepository interface {
	Create(h *entity.StockHistory) error
	ListAll(limit, offset int) ([]*entity.StockHistory, error)
	ListByProduct(productID string, limit, offset int) ([]*entity.StockHistory, error)
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockHistory, error)
	ListByRange(from, to time.Time, limit, offset int) ([]*entity.StockHistory, error)
	ListByType(adjustmentType string, limit, offset int) ([]*entity.StockHistory, error)
	ListByEmployee(email string, limit, offset int) ([]*entity.StockHistory, error)
}
