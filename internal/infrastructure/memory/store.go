// Package memory implementa los puertos del motor de inventario sobre mapas
// en memoria, con semántica transaccional por snapshot. Se usa en pruebas de
// los casos de uso; el despliegue real usa los adaptadores de postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/assembly"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner         = (*Store)(nil)
	_ assembly.AssemblyTxRunner  = (*Store)(nil)
	_ repository.ItemRepository  = (*itemRepo)(nil)
	_ repository.LotRepository   = (*lotRepo)(nil)
	_ repository.BOMRepository   = (*bomRepo)(nil)
	_ repository.LocationRepository         = (*locationRepo)(nil)
	_ repository.LocationQuantityRepository = (*locQtyRepo)(nil)
	_ repository.MovementRepository         = (*movementRepo)(nil)
	_ repository.ConsumptionRepository      = (*consumptionRepo)(nil)
)

// Store guarda todo el estado del inventario en memoria.
type Store struct {
	mu          sync.Mutex
	items       map[string]entity.InventoryItem    // tenant|id
	locations   map[string]entity.Location         // tenant|id
	locQty      map[string]entity.LocationQuantity // tenant|item|loc
	lots        map[string]entity.Lot              // tenant|id
	movements   []entity.Movement
	consumption map[string]entity.ConsumptionRecord // tenant|item|fecha
	bom         map[string][]entity.BOMComponent    // tenant|parent
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		items:       make(map[string]entity.InventoryItem),
		locations:   make(map[string]entity.Location),
		locQty:      make(map[string]entity.LocationQuantity),
		lots:        make(map[string]entity.Lot),
		consumption: make(map[string]entity.ConsumptionRecord),
		bom:         make(map[string][]entity.BOMComponent),
	}
}

func key(parts ...string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "|" + p
	}
	return out
}

// --- Semillas para pruebas ---

// SeedItem agrega un artículo.
func (s *Store) SeedItem(it entity.InventoryItem) {
	if it.Status == "" {
		it.Status = entity.StatusOutOfStock
	}
	s.items[key(it.TenantID, it.ID)] = it
}

// SeedLocation agrega una ubicación.
func (s *Store) SeedLocation(l entity.Location) {
	s.locations[key(l.TenantID, l.ID)] = l
}

// SeedLocationQuantity fija stock inicial en una ubicación y ajusta el total
// del artículo en consecuencia.
func (s *Store) SeedLocationQuantity(lq entity.LocationQuantity) {
	s.locQty[key(lq.TenantID, lq.ItemID, lq.LocationID)] = lq
	it := s.items[key(lq.TenantID, lq.ItemID)]
	it.Quantity = it.Quantity.Add(lq.Quantity)
	s.items[key(lq.TenantID, lq.ItemID)] = it
}

// SeedLot agrega un lote.
func (s *Store) SeedLot(l entity.Lot) {
	s.lots[key(l.TenantID, l.ID)] = l
}

// SeedBOMComponent agrega una línea de BOM.
func (s *Store) SeedBOMComponent(c entity.BOMComponent) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	k := key(c.TenantID, c.ParentItemID)
	s.bom[k] = append(s.bom[k], c)
}

// --- Repos atados al store ---

// Items devuelve el repositorio de artículos.
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s} }

// Locations devuelve el repositorio de ubicaciones.
func (s *Store) Locations() repository.LocationRepository { return &locationRepo{s} }

// LocationQuantities devuelve el ledger por ubicación.
func (s *Store) LocationQuantities() repository.LocationQuantityRepository { return &locQtyRepo{s} }

// Lots devuelve el ledger por lote.
func (s *Store) Lots() repository.LotRepository { return &lotRepo{s} }

// Movements devuelve el diario.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s} }

// Consumption devuelve el histórico de consumo.
func (s *Store) Consumption() repository.ConsumptionRepository { return &consumptionRepo{s} }

// BOM devuelve la lista de materiales.
func (s *Store) BOM() repository.BOMRepository { return &bomRepo{s} }

// --- TxRunner por snapshot: todo o nada, igual que la transacción SQL ---

type snapshot struct {
	items       map[string]entity.InventoryItem
	locQty      map[string]entity.LocationQuantity
	lots        map[string]entity.Lot
	movements   []entity.Movement
	consumption map[string]entity.ConsumptionRecord
}

func (s *Store) take() snapshot {
	cp := snapshot{
		items:       make(map[string]entity.InventoryItem, len(s.items)),
		locQty:      make(map[string]entity.LocationQuantity, len(s.locQty)),
		lots:        make(map[string]entity.Lot, len(s.lots)),
		movements:   append([]entity.Movement(nil), s.movements...),
		consumption: make(map[string]entity.ConsumptionRecord, len(s.consumption)),
	}
	for k, v := range s.items {
		cp.items[k] = v
	}
	for k, v := range s.locQty {
		cp.locQty[k] = v
	}
	for k, v := range s.lots {
		cp.lots[k] = v
	}
	for k, v := range s.consumption {
		cp.consumption[k] = v
	}
	return cp
}

func (s *Store) restore(sn snapshot) {
	s.items = sn.items
	s.locQty = sn.locQty
	s.lots = sn.lots
	s.movements = sn.movements
	s.consumption = sn.consumption
}

// Run ejecuta fn con semántica todo-o-nada: si fn falla, el estado vuelve
// exactamente al snapshot previo.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	locRepo repository.LocationQuantityRepository,
	lotRepo repository.LotRepository,
	itemRepo repository.ItemRepository,
	consumptionRepo repository.ConsumptionRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.take()
	if err := fn(s.Movements(), s.LocationQuantities(), s.Lots(), s.Items(), s.Consumption()); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

// RunAssembly ejecuta fn con los repos del orquestador de ensambles,
// con la misma semántica todo-o-nada.
func (s *Store) RunAssembly(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	locRepo repository.LocationQuantityRepository,
	itemRepo repository.ItemRepository,
	bomRepo repository.BOMRepository,
	consumptionRepo repository.ConsumptionRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := s.take()
	if err := fn(s.Movements(), s.LocationQuantities(), s.Items(), s.BOM(), s.Consumption()); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

// --- Implementaciones por agregado ---

type itemRepo struct{ s *Store }

func (r *itemRepo) GetByID(_ context.Context, tenantID, id string) (*entity.InventoryItem, error) {
	it, ok := r.s.items[key(tenantID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := it
	return &cp, nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *itemRepo) UpdateQuantityStatus(_ context.Context, tenantID, id string, quantity decimal.Decimal, status string) error {
	k := key(tenantID, id)
	it, ok := r.s.items[k]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	it.Status = status
	it.UpdatedAt = time.Now().UTC()
	r.s.items[k] = it
	return nil
}

func (r *itemRepo) ListBelowReorderPoint(_ context.Context, tenantID string, limit int) ([]*entity.InventoryItem, error) {
	var list []*entity.InventoryItem
	for k, it := range r.s.items {
		if it.TenantID == tenantID && it.Quantity.LessThan(it.ReorderPoint) {
			cp := r.s.items[k]
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		di := list[i].ReorderPoint.Sub(list[i].Quantity)
		dj := list[j].ReorderPoint.Sub(list[j].Quantity)
		return di.GreaterThan(dj)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type locationRepo struct{ s *Store }

func (r *locationRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Location, error) {
	l, ok := r.s.locations[key(tenantID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := l
	return &cp, nil
}

type locQtyRepo struct{ s *Store }

func (r *locQtyRepo) Get(_ context.Context, tenantID, itemID, locationID string) (*entity.LocationQuantity, error) {
	lq, ok := r.s.locQty[key(tenantID, itemID, locationID)]
	if !ok {
		return &entity.LocationQuantity{TenantID: tenantID, ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
	}
	cp := lq
	return &cp, nil
}

func (r *locQtyRepo) GetOrCreateForUpdate(_ context.Context, tenantID, itemID, locationID string) (*entity.LocationQuantity, error) {
	k := key(tenantID, itemID, locationID)
	lq, ok := r.s.locQty[k]
	if !ok {
		lq = entity.LocationQuantity{TenantID: tenantID, ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}
		r.s.locQty[k] = lq
	}
	cp := lq
	return &cp, nil
}

func (r *locQtyRepo) ApplyDelta(ctx context.Context, tenantID, itemID, locationID string, delta decimal.Decimal) (*entity.LocationQuantity, error) {
	lq, err := r.GetOrCreateForUpdate(ctx, tenantID, itemID, locationID)
	if err != nil {
		return nil, err
	}
	newQty := lq.Quantity.Add(delta)
	if newQty.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ItemID:     itemID,
			LocationID: locationID,
			Requested:  delta.Abs(),
			Available:  lq.Quantity,
		}
	}
	lq.Quantity = newQty
	lq.UpdatedAt = time.Now().UTC()
	r.s.locQty[key(tenantID, itemID, locationID)] = *lq
	return lq, nil
}

func (r *locQtyRepo) SumByItem(_ context.Context, tenantID, itemID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, lq := range r.s.locQty {
		if lq.TenantID == tenantID && lq.ItemID == itemID {
			total = total.Add(lq.Quantity)
		}
	}
	return total, nil
}

func (r *locQtyRepo) ListByItem(_ context.Context, tenantID, itemID string) ([]*entity.LocationQuantity, error) {
	var list []*entity.LocationQuantity
	for k := range r.s.locQty {
		lq := r.s.locQty[k]
		if lq.TenantID == tenantID && lq.ItemID == itemID {
			cp := lq
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LocationID < list[j].LocationID })
	return list, nil
}

type lotRepo struct{ s *Store }

func (r *lotRepo) Create(_ context.Context, lot *entity.Lot) error {
	for _, l := range r.s.lots {
		if l.TenantID == lot.TenantID && l.LotNumber == lot.LotNumber {
			return domain.ErrDuplicate
		}
	}
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	r.s.lots[key(lot.TenantID, lot.ID)] = *lot
	return nil
}

func (r *lotRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Lot, error) {
	l, ok := r.s.lots[key(tenantID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := l
	return &cp, nil
}

func (r *lotRepo) GetByNumber(_ context.Context, tenantID, lotNumber string) (*entity.Lot, error) {
	for _, l := range r.s.lots {
		if l.TenantID == tenantID && l.LotNumber == lotNumber {
			cp := l
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *lotRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Lot, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *lotRepo) ApplyDelta(ctx context.Context, tenantID, id string, delta decimal.Decimal) (*entity.Lot, error) {
	lot, err := r.GetForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	newQty := lot.Quantity.Add(delta)
	if newQty.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ItemID:    lot.ItemID,
			LotID:     id,
			Requested: delta.Abs(),
			Available: lot.Quantity,
		}
	}
	lot.Quantity = newQty
	lot.UpdatedAt = time.Now().UTC()
	r.s.lots[key(tenantID, id)] = *lot
	return lot, nil
}

func (r *lotRepo) Relocate(_ context.Context, tenantID, id, locationID string) error {
	k := key(tenantID, id)
	l, ok := r.s.lots[k]
	if !ok {
		return domain.ErrNotFound
	}
	l.LocationID = locationID
	l.UpdatedAt = time.Now().UTC()
	r.s.lots[k] = l
	return nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	r.s.movements = append(r.s.movements, *movement)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Movement, error) {
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.TenantID == tenantID && m.ID == id {
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *movementRepo) ListByItemAsc(_ context.Context, tenantID, itemID string, from, to *time.Time) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for i := range r.s.movements {
		m := r.s.movements[i]
		if m.TenantID != tenantID || m.ItemID != itemID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		list = append(list, &m)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *movementRepo) ListByItem(ctx context.Context, tenantID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	asc, err := r.ListByItemAsc(ctx, tenantID, itemID, from, to)
	if err != nil {
		return nil, err
	}
	// invertir a descendente y paginar
	var list []*entity.Movement
	for i := len(asc) - 1; i >= 0; i-- {
		list = append(list, asc[i])
	}
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

type consumptionRepo struct{ s *Store }

func consumptionKey(tenantID, itemID string, date time.Time) string {
	return key(tenantID, itemID, date.UTC().Format("2006-01-02"))
}

func (r *consumptionRepo) UpsertAdd(_ context.Context, record *entity.ConsumptionRecord) error {
	k := consumptionKey(record.TenantID, record.ItemID, record.Date)
	if existing, ok := r.s.consumption[k]; ok {
		existing.Quantity = existing.Quantity.Add(record.Quantity)
		existing.UpdatedAt = time.Now().UTC()
		r.s.consumption[k] = existing
		return nil
	}
	cp := *record
	cp.UpdatedAt = time.Now().UTC()
	r.s.consumption[k] = cp
	return nil
}

func (r *consumptionRepo) Get(_ context.Context, tenantID, itemID string, date time.Time) (*entity.ConsumptionRecord, error) {
	c, ok := r.s.consumption[consumptionKey(tenantID, itemID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (r *consumptionRepo) ListByItemRange(_ context.Context, tenantID, itemID string, from, to time.Time) ([]*entity.ConsumptionRecord, error) {
	var list []*entity.ConsumptionRecord
	for k := range r.s.consumption {
		c := r.s.consumption[k]
		if c.TenantID != tenantID || c.ItemID != itemID {
			continue
		}
		if c.Date.Before(from) || c.Date.After(to) {
			continue
		}
		cp := c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
	return list, nil
}

type bomRepo struct{ s *Store }

func (r *bomRepo) ListComponents(_ context.Context, tenantID, parentItemID string) ([]*entity.BOMComponent, error) {
	components := r.s.bom[key(tenantID, parentItemID)]
	list := make([]*entity.BOMComponent, 0, len(components))
	for i := range components {
		cp := components[i]
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ComponentItemID < list[j].ComponentItemID })
	return list, nil
}

func (r *bomRepo) AddComponent(_ context.Context, component *entity.BOMComponent) error {
	k := key(component.TenantID, component.ParentItemID)
	for _, c := range r.s.bom[k] {
		if c.ComponentItemID == component.ComponentItemID {
			return domain.ErrDuplicate
		}
	}
	if component.ID == "" {
		component.ID = uuid.New().String()
	}
	r.s.bom[k] = append(r.s.bom[k], *component)
	return nil
}

func (r *bomRepo) RemoveComponent(_ context.Context, tenantID, parentItemID, componentItemID string) error {
	k := key(tenantID, parentItemID)
	components := r.s.bom[k]
	for i, c := range components {
		if c.ComponentItemID == componentItemID {
			r.s.bom[k] = append(components[:i], components[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
