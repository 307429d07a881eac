package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = "id, product_id, warehouse_id, stock_level, updated_at"

// Get obtiene el inventario de un producto en una bodega. nil si no existe.
func (r *InventoryRepo) Get(productID, warehouseID string) (*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2`
	return r.scanOne(query, productID, warehouseID)
}

// GetForUpdate obtiene el inventario y bloquea la fila (SELECT FOR UPDATE). nil si no existe.
func (r *InventoryRepo) GetForUpdate(productID, warehouseID string) (*entity.Inventory, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	return r.scanOne(query, productID, warehouseID)
}

// Upsert inserta o actualiza el nivel de stock (por producto y bodega).
func (r *InventoryRepo) Upsert(inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (id, product_id, warehouse_id, stock_level, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET stock_level = EXCLUDED.stock_level, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.ProductID, inv.WarehouseID, inv.StockLevel, inv.UpdatedAt,
	)
	if err != nil {
		return storeErr("upsert inventory", err)
	}
	return nil
}

// ListAll devuelve todas las filas de inventario (para el escaneo de reconciliación).
func (r *InventoryRepo) ListAll() ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory ORDER BY product_id, warehouse_id`
	return r.scanMany(query)
}

// ListByProduct devuelve el inventario de un producto en todas las bodegas.
func (r *InventoryRepo) ListByProduct(productID string) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_id = $1 ORDER BY warehouse_id`
	return r.scanMany(query, productID)
}

// ListByWarehouse devuelve el inventario de una bodega.
func (r *InventoryRepo) ListByWarehouse(warehouseID string) ([]*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE warehouse_id = $1 ORDER BY product_id`
	return r.scanMany(query, warehouseID)
}

func (r *InventoryRepo) scanOne(query string, args ...any) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&inv.ID, &inv.ProductID, &inv.WarehouseID, &inv.StockLevel, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr("get inventory", err)
	}
	return &inv, nil
}

func (r *InventoryRepo) scanMany(query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, storeErr("list inventory", err)
	}
	defer rows.Close()
	var list []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(&inv.ID, &inv.ProductID, &inv.WarehouseID, &inv.StockLevel, &inv.UpdatedAt); err != nil {
			return nil, storeErr("scan inventory", err)
		}
		list = append(list, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list inventory", err)
	}
	return list, nil
}
