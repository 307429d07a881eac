package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// AlertRepository define el puerto de persistencia para alertas de stock bajo.
// FindActive devuelve nil (sin error) cuando no hay alerta activa para la clave;
// el almacén garantiza a lo sumo una fila con Status=active por (producto, bodega).
type AlertRepository interface {
	FindActive(productID, warehouseID string) (*entity.LowStockAlert, error)
	FindByID(id string) (*entity.LowStockAlert, error)
	Save(alert *entity.LowStockAlert) error
	ListActive(limit, offset int) ([]*entity.LowStockAlert, error)
	ListAll(limit, offset int) ([]*entity.LowStockAlert, error)
}
