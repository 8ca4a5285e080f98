package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/inventory"
	"github.com/jhoicas/instock-api/internal/domain/repository"
	"github.com/jhoicas/instock-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// LedgerUseCase aplica ventas y entradas sobre el stock de un producto de forma transaccional:
// bloqueo de fila (SELECT FOR UPDATE), nuevo stock y registro de auditoría en la misma tx.
type LedgerUseCase struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewLedgerUseCase construye el caso de uso. products y movements se usan solo para lecturas fuera de tx.
func NewLedgerUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	log *logger.Logger,
) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:  txRunner,
		products:  products,
		movements: movements,
		log:       log.Component("ledger"),
		now:       time.Now,
	}
}

// SaleInput entrada de RegisterSale. UserID es opcional (atribución).
type SaleInput struct {
	ProductID string
	Quantity  int64
	UserID    string
}

// EntryInput entrada de RegisterEntry.
type EntryInput struct {
	ProductID string
	Quantity  int64
	UnitCost  decimal.Decimal
	UserID    string
}

// Reconciliation compara el stock actual con el que resulta del historial de movimientos.
type Reconciliation struct {
	ProductID    string
	InitialStock int64
	Entries      int64
	Sales        int64
	Expected     int64
	Actual       int64
}

// Balanced indica si se cumple stock = inicial + entradas - ventas.
func (r *Reconciliation) Balanced() bool {
	return r.Expected == r.Actual
}

// RegisterSale descuenta quantity del stock. La lectura, la validación de stock suficiente,
// la escritura y el registro de la venta ocurren bajo el mismo bloqueo de fila.
func (uc *LedgerUseCase) RegisterSale(ctx context.Context, in SaleInput) (*entity.Product, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.ProductID == "" {
		return nil, domain.ErrNotFound
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		product, err := products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newStock, err := inventory.ApplySale(product.Stock, in.Quantity)
		if err != nil {
			return err
		}
		updated, err = products.UpdateStock(ctx, product.ID, newStock, product.AvgCost)
		if err != nil {
			return err
		}
		return movements.Create(ctx, &entity.StockMovement{
			ProductID:   product.ID,
			Kind:        entity.MovementSale,
			Quantity:    in.Quantity,
			UnitCost:    product.Price,
			ProductName: product.Name,
			MovedAt:     uc.now(),
			CreatedBy:   in.UserID,
		})
	})
	if err != nil {
		return nil, uc.fail(err, "registrar venta", in.ProductID)
	}

	uc.log.Info().
		Str("product_id", updated.ID).
		Int64("quantity", in.Quantity).
		Int64("stock", updated.Stock).
		Str("user_id", in.UserID).
		Msg("venta registrada")
	return updated, nil
}

// RegisterEntry suma quantity al stock, recalcula el costo promedio y guarda la entrada
// en product_entries. Si el registro de auditoría falla, el stock no cambia.
func (uc *LedgerUseCase) RegisterEntry(ctx context.Context, in EntryInput) (*entity.Product, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidCost
	}
	if in.ProductID == "" {
		return nil, domain.ErrNotFound
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		product, err := products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		newStock, err := inventory.ApplyEntry(product.Stock, in.Quantity)
		if err != nil {
			return err
		}
		avgCost := inventory.WeightedAverageCost(product.Stock, product.AvgCost, in.Quantity, in.UnitCost)
		updated, err = products.UpdateStock(ctx, product.ID, newStock, avgCost)
		if err != nil {
			return err
		}
		return movements.Create(ctx, &entity.StockMovement{
			ProductID:   product.ID,
			Kind:        entity.MovementEntry,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			ProductName: product.Name,
			MovedAt:     uc.now(),
			CreatedBy:   in.UserID,
		})
	})
	if err != nil {
		return nil, uc.fail(err, "registrar entrada", in.ProductID)
	}

	uc.log.Info().
		Str("product_id", updated.ID).
		Int64("quantity", in.Quantity).
		Str("unit_cost", in.UnitCost.String()).
		Int64("stock", updated.Stock).
		Str("user_id", in.UserID).
		Msg("entrada registrada")
	return updated, nil
}

// ListMovements historial de auditoría de un producto. kind vacío lista entradas y ventas.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, productID string, kind entity.MovementKind, limit, offset int) ([]*entity.StockMovement, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movements.ListByProduct(ctx, productID, kind, limit, offset)
}

// Reconcile verifica la identidad contable del producto bajo bloqueo de fila,
// de modo que ninguna venta o entrada concurrente altera el resultado a mitad de camino.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, productID string) (*Reconciliation, error) {
	var rec *Reconciliation
	err := uc.txRunner.Run(ctx, func(products repository.ProductRepository, movements repository.StockMovementRepository) error {
		product, err := products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		totals, err := movements.TotalsByProduct(ctx, productID)
		if err != nil {
			return err
		}
		rec = &Reconciliation{
			ProductID:    product.ID,
			InitialStock: product.InitialStock,
			Entries:      totals.Entries,
			Sales:        totals.Sales,
			Expected:     inventory.Expected(product.InitialStock, totals.Entries, totals.Sales),
			Actual:       product.Stock,
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(err, "conciliar stock", productID)
	}
	if !rec.Balanced() {
		uc.log.Warn().
			Str("product_id", productID).
			Int64("expected", rec.Expected).
			Int64("actual", rec.Actual).
			Msg("stock descuadrado")
	}
	return rec, nil
}

// fail conserva los rechazos de dominio tal cual y envuelve los fallos de almacenamiento.
func (uc *LedgerUseCase) fail(err error, op, productID string) error {
	if domain.IsStockError(err) {
		return err
	}
	uc.log.Error().Err(err).Str("product_id", productID).Msg(op)
	return fmt.Errorf("%s: %w", op, err)
}
