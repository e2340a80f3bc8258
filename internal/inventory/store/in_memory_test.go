package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	inverrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newStoreWith(t *testing.T, stocks ...int32) *InMemoryStore {
	t.Helper()
	s := NewInMemoryStore()
	for i, stock := range stocks {
		_, err := s.Create(context.Background(), "product", stock, int64(100*(i+1)))
		require.NoError(t, err)
	}
	return s
}

func stockOf(t *testing.T, s *InMemoryStore, id int64) int32 {
	t.Helper()
	products, err := s.FindAll(context.Background())
	require.NoError(t, err)
	for _, p := range products {
		if p.ID == id {
			return p.Stock
		}
	}
	t.Fatalf("product %d not found", id)
	return 0
}

func Test_InMemoryStore_Sell(t *testing.T) {
	testCases := []struct {
		name          string
		stock         int32
		id            int64
		expectedStock int32
		expectedErr   error
	}{
		{name: "Success - decrements by one", stock: 5, id: 1, expectedStock: 4},
		{name: "Success - last unit", stock: 1, id: 1, expectedStock: 0},
		{name: "Error - out of stock", stock: 0, id: 1, expectedErr: inverrors.ErrOutOfStock},
		{name: "Error - negative stock is rejected", stock: -3, id: 1, expectedErr: inverrors.ErrOutOfStock},
		{name: "Error - product not found", stock: 5, id: 999, expectedErr: inverrors.ErrProductNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := newStoreWith(t, tc.stock)

			// when
			sold, err := s.Sell(context.Background(), tc.id)

			// then
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, sold)
				assert.Equal(t, tc.stock, stockOf(t, s, 1), "stock must not change on rejection")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, sold.ID)
			assert.Equal(t, tc.expectedStock, sold.Stock)
			assert.Equal(t, tc.expectedStock, stockOf(t, s, tc.id))
		})
	}
}

func Test_InMemoryStore_Sell_TwiceDecrementsTwice(t *testing.T) {
	// given
	s := newStoreWith(t, 3)

	// when
	_, err1 := s.Sell(context.Background(), 1)
	second, err2 := s.Sell(context.Background(), 1)

	// then
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, int32(1), second.Stock)
}

func Test_InMemoryStore_Sell_Concurrent(t *testing.T) {
	testCases := []struct {
		name    string
		stock   int32
		callers int
	}{
		{name: "more callers than stock", stock: 10, callers: 50},
		{name: "fewer callers than stock", stock: 40, callers: 25},
		{name: "single unit race", stock: 1, callers: 2},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := newStoreWith(t, tc.stock)
			var accepted, rejected atomic.Int32
			var g errgroup.Group

			// when
			for range tc.callers {
				g.Go(func() error {
					sold, err := s.Sell(context.Background(), 1)
					switch {
					case err == nil:
						accepted.Add(1)
						if sold.Stock < 0 {
							return errors.New("stock went negative")
						}
						return nil
					case errors.Is(err, inverrors.ErrOutOfStock):
						rejected.Add(1)
						return nil
					default:
						return err
					}
				})
			}

			// then
			require.NoError(t, g.Wait())
			expectedAccepted := min(int32(tc.callers), tc.stock)
			assert.Equal(t, expectedAccepted, accepted.Load())
			assert.Equal(t, int32(tc.callers)-expectedAccepted, rejected.Load())
			assert.Equal(t, tc.stock-expectedAccepted, stockOf(t, s, 1))
		})
	}
}

func Test_InMemoryStore_Sell_SequentialMatchesConcurrent(t *testing.T) {
	// given
	const sales = 7
	sequential := newStoreWith(t, 20)
	concurrent := newStoreWith(t, 20)

	// when
	for range sales {
		_, err := sequential.Sell(context.Background(), 1)
		require.NoError(t, err)
	}
	var g errgroup.Group
	for range sales {
		g.Go(func() error {
			_, err := concurrent.Sell(context.Background(), 1)
			return err
		})
	}
	require.NoError(t, g.Wait())

	// then
	assert.Equal(t, stockOf(t, sequential, 1), stockOf(t, concurrent, 1))
	assert.Equal(t, int32(13), stockOf(t, concurrent, 1))
}

func Test_InMemoryStore_Sell_CommitFailureLeavesStockUnchanged(t *testing.T) {
	// given
	s := newStoreWith(t, 5)
	s.beforeCommit = func(_ Product) error { return errors.New("disk full") }

	// when
	sold, err := s.Sell(context.Background(), 1)

	// then
	require.ErrorIs(t, err, inverrors.ErrTransactionCommit)
	assert.Nil(t, sold)
	assert.Equal(t, int32(5), stockOf(t, s, 1))

	// the lock was released, so the next sale succeeds
	s.beforeCommit = nil
	sold, err = s.Sell(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(4), sold.Stock)
}

func Test_InMemoryStore_Sell_DifferentProductsDoNotBlock(t *testing.T) {
	// given
	s := newStoreWith(t, 5, 5)
	row := s.rows[1]
	row.lock <- struct{}{}
	t.Cleanup(func() { <-row.lock })

	// when
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sold, err := s.Sell(ctx, 2)

	// then
	require.NoError(t, err)
	assert.Equal(t, int32(4), sold.Stock)
	assert.Equal(t, int32(5), stockOf(t, s, 1), "readers do not wait for a held lock")
}

func Test_InMemoryStore_Sell_CancelWhileWaitingForLock(t *testing.T) {
	// given
	s := newStoreWith(t, 5)
	row := s.rows[1]
	row.lock <- struct{}{}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// when
	sold, err := s.Sell(ctx, 1)
	<-row.lock

	// then
	require.ErrorIs(t, err, inverrors.ErrLockProduct)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, sold)
	assert.Equal(t, int32(5), stockOf(t, s, 1))
}

func Test_InMemoryStore_SellWaitsForHolder(t *testing.T) {
	// given
	s := newStoreWith(t, 1)
	row := s.rows[1]
	row.lock <- struct{}{}
	done := make(chan error, 1)

	// when
	go func() {
		_, err := s.Sell(context.Background(), 1)
		done <- err
	}()

	// then
	select {
	case <-done:
		t.Fatal("sale completed while the row lock was held")
	case <-time.After(30 * time.Millisecond):
	}
	<-row.lock
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sale did not complete after the lock was released")
	}
	assert.Equal(t, int32(0), stockOf(t, s, 1))
}

func Test_InMemoryStore_FindAll_OrderedByID(t *testing.T) {
	// given
	s := newStoreWith(t, 3, 1, 2, 9)

	// when
	products, err := s.FindAll(context.Background())

	// then
	require.NoError(t, err)
	require.Len(t, products, 4)
	for i, p := range products {
		assert.Equal(t, int64(i+1), p.ID)
	}
}

func Test_InMemoryStore_Create(t *testing.T) {
	// given
	s := NewInMemoryStore()

	// when
	first, err1 := s.Create(context.Background(), "Mouse", 10, 250000)
	second, err2 := s.Create(context.Background(), "Refund voucher", -1, -500)

	// then
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, int32(-1), second.Stock, "create stores values as given")
	assert.Equal(t, int64(-500), second.Price)
	assert.False(t, first.CreatedAt.IsZero())
}

func Test_NewSeededInMemoryStores(t *testing.T) {
	// when
	products, users := NewSeededInMemoryStores()

	// then
	catalog, err := products.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 10)
	assert.Equal(t, "Laptop Gaming ASUS", catalog[0].Name)
	assert.Equal(t, int32(10), catalog[0].Stock)

	all, err := users.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 11)
	assert.Equal(t, "Admin", all[0].RoleName)

	roles, err := users.FindRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Role{{ID: 1, Name: "Admin"}, {ID: 2, Name: "Seller"}, {ID: 3, Name: "Pelanggan"}}, roles)
}
