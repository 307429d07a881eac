package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL.
// Un índice único parcial sobre (product_id, warehouse_id) WHERE status = 'active'
// respalda en el esquema la invariante de "a lo sumo una alerta activa por clave".
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = "id, product_id, warehouse_id, current_stock, min_stock_level, status, message, created_at, resolved_at"

// FindActive devuelve la alerta activa de la clave, o nil si no hay.
func (r *AlertRepo) FindActive(productID, warehouseID string) (*entity.LowStockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM low_stock_alerts
		WHERE product_id = $1 AND warehouse_id = $2 AND status = 'active'`
	return r.scanOne(query, productID, warehouseID)
}

// FindByID devuelve una alerta por ID, o nil si no existe.
func (r *AlertRepo) FindByID(id string) (*entity.LowStockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_stock_alerts WHERE id = $1`
	return r.scanOne(query, id)
}

// Save inserta o actualiza una alerta (refresco en el mismo registro o resolución).
func (r *AlertRepo) Save(alert *entity.LowStockAlert) error {
	query := `
		INSERT INTO low_stock_alerts (id, product_id, warehouse_id, current_stock, min_stock_level, status, message, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET current_stock = EXCLUDED.current_stock,
		              min_stock_level = EXCLUDED.min_stock_level,
		              status = EXCLUDED.status,
		              message = EXCLUDED.message,
		              resolved_at = EXCLUDED.resolved_at`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.ProductID, alert.WarehouseID, alert.CurrentStock,
		alert.MinStockLevel, alert.Status, alert.Message, alert.CreatedAt, alert.ResolvedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Chocó con el índice parcial de alertas activas: ya existe otra activa.
			return domain.ErrConflict
		}
		return storeErr("save alert", err)
	}
	return nil
}

// ListActive lista las alertas activas con paginación estable.
func (r *AlertRepo) ListActive(limit, offset int) ([]*entity.LowStockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM low_stock_alerts WHERE status = 'active'
		ORDER BY created_at, id LIMIT $1 OFFSET $2`
	return r.scanMany(query, limit, offset)
}

// ListAll lista todas las alertas (activas y resueltas) con paginación estable.
func (r *AlertRepo) ListAll(limit, offset int) ([]*entity.LowStockAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM low_stock_alerts
		ORDER BY created_at, id LIMIT $1 OFFSET $2`
	return r.scanMany(query, limit, offset)
}

func (r *AlertRepo) scanOne(query string, args ...any) (*entity.LowStockAlert, error) {
	var a entity.LowStockAlert
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&a.ID, &a.ProductID, &a.WarehouseID, &a.CurrentStock,
		&a.MinStockLevel, &a.Status, &a.Message, &a.CreatedAt, &a.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get alert", err)
	}
	return &a, nil
}

func (r *AlertRepo) scanMany(query string, args ...any) ([]*entity.LowStockAlert, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, storeErr("list alerts", err)
	}
	defer rows.Close()
	var list []*entity.LowStockAlert
	for rows.Next() {
		var a entity.LowStockAlert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.WarehouseID, &a.CurrentStock,
			&a.MinStockLevel, &a.Status, &a.Message, &a.CreatedAt, &a.ResolvedAt); err != nil {
			return nil, storeErr("scan alert", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list alerts", err)
	}
	return list, nil
}
