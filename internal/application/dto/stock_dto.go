package dto

import (
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockAdjustmentRequest body para POST /api/stock/in y /api/stock/out.
type StockAdjustmentRequest struct {
	ProductID        string `json:"product_id"`
	WarehouseID      string `json:"warehouse_id"`
	Quantity         int    `json:"quantity"`
	PerformedByEmail string `json:"performed_by_email"`
}

// InventoryResponse stock actual de un producto en una bodega.
type InventoryResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	StockLevel  int       `json:"stock_level"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToInventoryResponse mapea la entidad a su representación HTTP.
func ToInventoryResponse(inv *entity.Inventory) InventoryResponse {
	return InventoryResponse{
		ID:          inv.ID,
		ProductID:   inv.ProductID,
		WarehouseID: inv.WarehouseID,
		StockLevel:  inv.StockLevel,
		UpdatedAt:   inv.UpdatedAt,
	}
}

// StockHistoryResponse un registro del libro mayor de ajustes.
type StockHistoryResponse struct {
	ID                 string    `json:"id"`
	ProductID          string    `json:"product_id"`
	WarehouseID        string    `json:"warehouse_id"`
	AdjustmentType     string    `json:"adjustment_type"`
	AdjustmentQuantity int       `json:"adjustment_quantity"`
	PerformedBy        string    `json:"performed_by"`
	Timestamp          time.Time `json:"timestamp"`
}

// ToStockHistoryResponse mapea la entidad a su representación HTTP.
func ToStockHistoryResponse(h *entity.StockHistory) StockHistoryResponse {
	return StockHistoryResponse{
		ID:                 h.ID,
		ProductID:          h.ProductID,
		WarehouseID:        h.WarehouseID,
		AdjustmentType:     h.AdjustmentType,
		AdjustmentQuantity: h.AdjustmentQuantity,
		PerformedBy:        h.PerformedBy,
		Timestamp:          h.Timestamp,
	}
}
