package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// InventoryRepository define el puerto para consultar/actualizar el stock por producto+bodega.
// Get y GetForUpdate devuelven nil (sin error) cuando no existe registro para la clave.
type InventoryRepository interface {
	Get(productID, warehouseID string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); usar dentro de transacción.
	GetForUpdate(productID, warehouseID string) (*entity.Inventory, error)
	Upsert(inv *entity.Inventory) error
	ListAll() ([]*entity.Inventory, error)
	ListByProduct(productID string) ([]*entity.Inventory, error)
	ListByWarehouse(warehouseID string) ([]*entity.Inventory, error)
}
