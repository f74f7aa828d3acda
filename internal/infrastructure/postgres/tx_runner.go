package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/assembly"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and assembly.AssemblyTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ assembly.AssemblyTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Un rollback deja ledger, lotes, diario y consumo
// exactamente como estaban: todos los efectos son transaccionales.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	locRepo repository.LocationQuantityRepository,
	lotRepo repository.LotRepository,
	itemRepo repository.ItemRepository,
	consumptionRepo repository.ConsumptionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	locRepo := NewLocationQuantityRepository(tx)
	lotRepo := NewLotRepository(tx)
	itemRepo := NewItemRepository(tx)
	consumptionRepo := NewConsumptionRepository(tx)

	if err := fn(movRepo, locRepo, lotRepo, itemRepo, consumptionRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapPgErr("commit transaction", err)
	}
	return nil
}

// RunAssembly inicia una transacción con los repos que necesita el
// orquestador de ensambles (build/unbuild multi-componente).
func (r *TxRunner) RunAssembly(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	locRepo repository.LocationQuantityRepository,
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
	consumptionRepo repository.ConsumptionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	locRepo := NewLocationQuantityRepository(tx)
	itemRepo := NewItemRepository(tx)
	bomRepo := NewBOMRepository(tx)
	consumptionRepo := NewConsumptionRepository(tx)

	if err := fn(movRepo, locRepo, itemRepo, bomRepo, consumptionRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapPgErr("commit transaction", err)
	}
	return nil
}
