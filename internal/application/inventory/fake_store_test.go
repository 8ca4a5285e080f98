package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// memStore emula la semántica de PostgreSQL que necesita el libro: bloqueo de fila hasta
// Commit/Rollback y escrituras invisibles para otras transacciones hasta el Commit.
type memStore struct {
	mu        sync.Mutex
	rowLocks  map[string]*sync.Mutex
	products  map[string]entity.Product
	movements []entity.StockMovement

	failMovementInsert error
	failUpdateStock    error
	runs               int
}

var errNotSupported = errors.New("no soportado por el store de prueba")

func newMemStore(products ...entity.Product) *memStore {
	s := &memStore{
		rowLocks: map[string]*sync.Mutex{},
		products: map[string]entity.Product{},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memStore) rowLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rowLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.rowLocks[id] = l
	}
	return l
}

func (s *memStore) product(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *memStore) setStock(id string, stock int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[id]
	p.Stock = stock
	s.products[id] = p
}

func (s *memStore) movementsOf(id string) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.movements {
		if m.ProductID == id {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) runCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Run implementa TxRunner.
func (s *memStore) Run(ctx context.Context, fn func(repository.ProductRepository, repository.StockMovementRepository) error) error {
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	tx := &fakeTx{store: s, staged: map[string]entity.Product{}}
	defer tx.release()

	if err := fn(&productRepo{s: s, tx: tx}, &movementRepo{s: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range tx.staged {
		s.products[id] = p
	}
	s.movements = append(s.movements, tx.inserted...)
	return nil
}

type fakeTx struct {
	store    *memStore
	held     []*sync.Mutex
	staged   map[string]entity.Product
	inserted []entity.StockMovement
}

func (tx *fakeTx) release() {
	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.held[i].Unlock()
	}
	tx.held = nil
}

// productRepo con tx == nil lee solo datos confirmados.
type productRepo struct {
	s  *memStore
	tx *fakeTx
}

func (r *productRepo) Create(context.Context, *entity.Product) error { return errNotSupported }
func (r *productRepo) Update(context.Context, *entity.Product) error { return errNotSupported }
func (r *productRepo) Delete(context.Context, string) error          { return errNotSupported }
func (r *productRepo) List(context.Context, repository.ProductFilter) ([]*entity.Product, error) {
	return nil, errNotSupported
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.product(id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if r.tx == nil {
		return nil, errors.New("GetForUpdate fuera de transacción")
	}
	if p, ok := r.tx.staged[id]; ok {
		return &p, nil
	}
	lock := r.s.rowLock(id)
	lock.Lock()
	r.tx.held = append(r.tx.held, lock)
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(_ context.Context, id string, stock int64, avgCost decimal.Decimal) (*entity.Product, error) {
	if r.s.failUpdateStock != nil {
		return nil, r.s.failUpdateStock
	}
	p, ok := r.tx.staged[id]
	if !ok {
		committed, found := r.s.product(id)
		if !found {
			return nil, nil
		}
		p = committed
	}
	p.Stock = stock
	p.AvgCost = avgCost
	r.tx.staged[id] = p
	return &p, nil
}

func (r *productRepo) ListBelowMinimum(context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.BelowMinimum() {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type movementRepo struct {
	s  *memStore
	tx *fakeTx
}

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if r.s.failMovementInsert != nil {
		return r.s.failMovementInsert
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.tx.inserted = append(r.tx.inserted, *m)
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, kind entity.MovementKind, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movementsOf(productID) {
		if kind != "" && m.Kind != kind {
			continue
		}
		cp := m
		out = append(out, &cp)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *movementRepo) TotalsByProduct(_ context.Context, productID string) (repository.MovementTotals, error) {
	var t repository.MovementTotals
	for _, m := range r.s.movementsOf(productID) {
		switch m.Kind {
		case entity.MovementEntry:
			t.Entries += m.Quantity
		case entity.MovementSale:
			t.Sales += m.Quantity
		}
	}
	// movimientos insertados en la tx en curso también cuentan
	if r.tx != nil {
		for _, m := range r.tx.inserted {
			if m.ProductID != productID {
				continue
			}
			if m.Kind == entity.MovementEntry {
				t.Entries += m.Quantity
			} else {
				t.Sales += m.Quantity
			}
		}
	}
	return t, nil
}
