package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	inverrors "github.com/abgdnv/inventory/internal/inventory/errors"
)

// productRow is one entry of the lock table.
// lock is a one-slot semaphore held for the whole check-and-decrement.
// committed is replaced atomically on commit, so readers never wait for a seller.
type productRow struct {
	lock      chan struct{}
	committed atomic.Pointer[Product]
}

func newProductRow(p Product) *productRow {
	row := &productRow{lock: make(chan struct{}, 1)}
	row.committed.Store(&p)
	return row
}

var _ ProductStore = (*InMemoryStore)(nil)

// InMemoryStore implements ProductStore with a lock table keyed by product id.
type InMemoryStore struct {
	mu     sync.RWMutex
	rows   map[int64]*productRow
	nextID int64
	now    func() time.Time

	// beforeCommit runs while the row lock is held, right before the new snapshot is published.
	// A non-nil error aborts the sale.
	beforeCommit func(next Product) error
}

// NewInMemoryStore creates an empty in-memory ProductStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		rows:   make(map[int64]*productRow),
		nextID: 1,
		now:    time.Now,
	}
}

// FindAll retrieves all products ordered by id.
func (s *InMemoryStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.rows))
	for _, row := range s.rows {
		list = append(list, *row.committed.Load())
	}
	slices.SortFunc(list, func(a, b Product) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return list, nil
}

// Create creates a new product and returns it.
func (s *InMemoryStore) Create(_ context.Context, name string, stock int32, price int64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:        s.nextID,
		Name:      name,
		Stock:     stock,
		Price:     price,
		CreatedAt: s.now().UTC(),
	}
	s.nextID++
	s.rows[product.ID] = newProductRow(product)

	return &product, nil
}

// Sell acquires the row lock, checks the committed stock and publishes the decremented snapshot.
// ctx only bounds the wait for the lock. Once the lock is held the sale runs to completion.
func (s *InMemoryStore) Sell(ctx context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	row, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, inverrors.ErrProductNotFound
	}

	select {
	case row.lock <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", inverrors.ErrLockProduct, ctx.Err())
	}
	defer func() { <-row.lock }()

	current := row.committed.Load()
	if current.Stock <= 0 {
		return nil, inverrors.ErrOutOfStock
	}

	next := *current
	next.Stock--
	if s.beforeCommit != nil {
		if err := s.beforeCommit(next); err != nil {
			return nil, fmt.Errorf("%w: %w", inverrors.ErrTransactionCommit, err)
		}
	}
	row.committed.Store(&next)

	sold := next
	return &sold, nil
}

func (s *InMemoryStore) Ping(_ context.Context) error {
	return nil
}
