package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger/internal/application/alert"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
	"github.com/tu-usuario/stock-ledger/pkg/keymutex"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
)

// UseCase registra entradas y salidas de stock de forma transaccional: mutación de
// Inventory + append de StockHistory como unidad atómica, seguidas de la evaluación
// síncrona de alerta, todo bajo exclusión por clave (producto, bodega).
type UseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	alerts        *alert.Engine
	keys          *keymutex.KeyMutex
	log           *logger.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso. keys debe compartirse con el scheduler de
// alertas para que mutaciones y reconciliación se serialicen por clave.
func NewUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	alerts *alert.Engine,
	keys *keymutex.KeyMutex,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		alerts:        alerts,
		keys:          keys,
		log:           log,
		now:           time.Now,
	}
}

// StockIn registra una entrada de stock. Crea el registro de inventario en la primera
// entrada de la clave o incrementa el existente, y anota un ajuste ADD en el historial.
func (uc *UseCase) StockIn(ctx context.Context, productID, warehouseID string, quantity int, performedBy string) (*entity.Inventory, error) {
	return uc.apply(ctx, productID, warehouseID, quantity, performedBy, entity.AdjustmentADD)
}

// StockOut registra una salida de stock. Falla con ErrNotFound si la clave no tiene
// inventario y con InsufficientStockError si el stock disponible no alcanza; en ese
// caso el stock queda intacto y no se anota historial.
func (uc *UseCase) StockOut(ctx context.Context, productID, warehouseID string, quantity int, performedBy string) (*entity.Inventory, error) {
	return uc.apply(ctx, productID, warehouseID, quantity, performedBy, entity.AdjustmentREMOVE)
}

// apply valida, resuelve catálogo, y ejecuta mutación + historial + evaluación de
// alerta bajo el lock de la clave. Las violaciones de reglas de negocio se detectan
// antes de la escritura atómica y no dejan estado parcial.
func (uc *UseCase) apply(ctx context.Context, productID, warehouseID string, quantity int, performedBy, adjustmentType string) (*entity.Inventory, error) {
	if productID == "" || warehouseID == "" || quantity <= 0 || strings.TrimSpace(performedBy) == "" {
		return nil, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}

	key := alert.Key(productID, warehouseID)
	uc.keys.Lock(key)
	defer uc.keys.Unlock(key)

	now := uc.now()
	var result *entity.Inventory

	// Unidad atómica: Inventory + StockHistory en la misma transacción.
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		histRepo repository.StockHistoryRepository,
	) error {
		inv, err := invRepo.GetForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}

		switch adjustmentType {
		case entity.AdjustmentADD:
			if inv == nil {
				inv = &entity.Inventory{
					ID:          uuid.New().String(),
					ProductID:   productID,
					WarehouseID: warehouseID,
					StockLevel:  quantity,
				}
			} else {
				inv.StockLevel += quantity
			}
		case entity.AdjustmentREMOVE:
			if inv == nil {
				return domain.ErrNotFound
			}
			if inv.StockLevel < quantity {
				return &domain.InsufficientStockError{Available: inv.StockLevel, Requested: quantity}
			}
			inv.StockLevel -= quantity
		default:
			return domain.ErrInvalidInput
		}

		inv.UpdatedAt = now
		if err := invRepo.Upsert(inv); err != nil {
			return err
		}
		if err := histRepo.Create(&entity.StockHistory{
			ID:                 uuid.New().String(),
			ProductID:          productID,
			WarehouseID:        warehouseID,
			AdjustmentType:     adjustmentType,
			AdjustmentQuantity: quantity,
			PerformedBy:        strings.TrimSpace(performedBy),
			Timestamp:          now,
		}); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Evaluación síncrona tras el commit, aún dentro de la sección crítica de la
	// clave. Si falla, la mutación ya es durable; el scheduler corrige la deriva.
	if err := uc.alerts.Evaluate(ctx, productID, warehouseID, result.StockLevel, product.MinStockLevel); err != nil {
		uc.log.Warn().Err(err).
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Msg("evaluación de alerta fallida tras mutación de stock")
	}

	return result, nil
}
