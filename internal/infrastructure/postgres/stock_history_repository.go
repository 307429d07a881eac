package postgres

import (
	"context"
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo implementación sobre PostgreSQL (usable con pool o tx).
// El historial es append-only: el adaptador no expone update ni delete.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

const historyColumns = "id, product_id, warehouse_id, adjustment_type, adjustment_quantity, performed_by, timestamp"

// Create persiste un registro del historial de ajustes.
func (r *StockHistoryRepo) Create(h *entity.StockHistory) error {
	query := `
		INSERT INTO stock_history (id, product_id, warehouse_id, adjustment_type, adjustment_quantity, performed_by, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		h.ID, h.ProductID, h.WarehouseID, h.AdjustmentType, h.AdjustmentQuantity, h.PerformedBy, h.Timestamp,
	)
	if err != nil {
		return storeErr("create stock history", err)
	}
	return nil
}

// ListAll lista el historial completo, más reciente primero.
func (r *StockHistoryRepo) ListAll(limit, offset int) ([]*entity.StockHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history ORDER BY timestamp DESC, id LIMIT $1 OFFSET $2`
	return r.scanMany(query, limit, offset)
}

// ListByProduct lista el historial de un producto.
func (r *StockHistoryRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history WHERE product_id = $1
		ORDER BY timestamp DESC, id LIMIT $2 OFFSET $3`
	return r.scanMany(query, productID, limit, offset)
}

// ListByWarehouse lista el historial de una bodega.
func (r *StockHistoryRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history WHERE warehouse_id = $1
		ORDER BY timestamp DESC, id LIMIT $2 OFFSET $3`
	return r.scanMany(query, warehouseID, limit, offset)
}

// ListByRange lista el historial entre dos fechas.
func (r *StockHistoryRepo) ListByRange(from, to time.Time, limit, offset int) ([]*entity.StockHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp DESC, id LIMIT $3 OFFSET $4`
	return r.scanMany(query, from, to, limit, offset)
}

// ListByType lista el historial de un tipo de ajuste (ADD o REMOVE).
func (r *StockHistoryRepo) ListByType(adjustmentType string, limit, offset int) ([]*entity.StockHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history WHERE adjustment_type = $1
		ORDER BY timestamp DESC, id LIMIT $2 OFFSET $3`
	return r.scanMany(query, adjustmentType, limit, offset)
}

// ListByEmployee lista el historial de los ajustes realizados por un empleado.
func (r *StockHistoryRepo) ListByEmployee(email string, limit, offset int) ([]*entity.StockHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM stock_history WHERE performed_by = $1
		ORDER BY timestamp DESC, id LIMIT $2 OFFSET $3`
	return r.scanMany(query, email, limit, offset)
}

func (r *StockHistoryRepo) scanMany(query string, args ...any) ([]*entity.StockHistory, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, storeErr("list stock history", err)
	}
	defer rows.Close()
	var list []*entity.StockHistory
	for rows.Next() {
		var h entity.StockHistory
		if err := rows.Scan(&h.ID, &h.ProductID, &h.WarehouseID, &h.AdjustmentType,
			&h.AdjustmentQuantity, &h.PerformedBy, &h.Timestamp); err != nil {
			return nil, storeErr("scan stock history", err)
		}
		list = append(list, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list stock history", err)
	}
	return list, nil
}
