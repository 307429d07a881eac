package stock

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza la unidad atómica del libro mayor: la escritura de
// Inventory y el append de StockHistory persisten juntos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		histRepo repository.StockHistoryRepository,
	) error) error
}
