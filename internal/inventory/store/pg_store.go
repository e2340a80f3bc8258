package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	inverrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	findAllProductsSQL = `SELECT id, name, stock, price, created_at FROM products ORDER BY id ASC`
	createProductSQL   = `INSERT INTO products (name, stock, price) VALUES ($1, $2, $3)
		RETURNING id, name, stock, price, created_at`
	lockProductSQL = `SELECT stock FROM products WHERE id = $1 FOR UPDATE`
	decrementSQL   = `UPDATE products SET stock = stock - 1 WHERE id = $1
		RETURNING id, name, stock, price, created_at`
)

const rollbackTimeout = 5 * time.Second

// txBeginner starts transactions. *pgxpool.Pool satisfies it.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ ProductStore = (*PgStore)(nil)

type PgStore struct {
	db        *pgxpool.Pool
	tx        txBeginner
	txTimeout time.Duration
}

// NewPgStore creates a ProductStore backed by PostgreSQL.
// txTimeout bounds every sale transaction.
func NewPgStore(dbp *pgxpool.Pool, txTimeout time.Duration) *PgStore {
	return &PgStore{
		db:        dbp,
		tx:        dbp,
		txTimeout: txTimeout,
	}
}

func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, findAllProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrFailedToFindProducts, err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrFailedToFindProducts, err)
	}
	return products, nil
}

func (p *PgStore) Create(ctx context.Context, name string, stock int32, price int64) (*Product, error) {
	rows, err := p.db.Query(ctx, createProductSQL, name, stock, price)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrCreateProduct, err)
	}
	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrCreateProduct, err)
	}
	return &product, nil
}

// Sell locks the product row with SELECT ... FOR UPDATE before reading the stock it checks,
// so concurrent sales of the same product are serialized by PostgreSQL until commit.
// Once the transaction has begun it runs on a context detached from ctx and bounded by txTimeout,
// so a disconnecting caller cannot leave it half done.
func (p *PgStore) Sell(ctx context.Context, id int64) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrTransactionBegin, err)
	}
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.txTimeout)
	defer cancel()

	var sold Product
	txErr := p.withTransaction(txCtx, func(tx pgx.Tx) error {
		var stock int32
		if err := tx.QueryRow(txCtx, lockProductSQL, id).Scan(&stock); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return inverrors.ErrProductNotFound
			}
			return fmt.Errorf("%w: %w", inverrors.ErrLockProduct, err)
		}
		if stock <= 0 {
			return inverrors.ErrOutOfStock
		}
		rows, err := tx.Query(txCtx, decrementSQL, id)
		if err != nil {
			return fmt.Errorf("%w: %w", inverrors.ErrDecrementStock, err)
		}
		sold, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[Product])
		if err != nil {
			return fmt.Errorf("%w: %w", inverrors.ErrDecrementStock, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &sold, nil
}

func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return runInTx(ctx, p.tx, fn)
}

// runInTx begins a transaction, runs fn and commits. Any error rolls the transaction back.
// Rollback runs on its own bounded context so it still happens after ctx expired.
func runInTx(ctx context.Context, beginner txBeginner, fn func(tx pgx.Tx) error) error {
	tx, err := beginner.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", inverrors.ErrTransactionBegin, err)
	}
	rollback := func() error {
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer cancel()
		if rbErr := tx.Rollback(rbCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w: %w", inverrors.ErrTransactionRollback, rbErr)
		}
		return nil
	}

	if err := fn(tx); err != nil {
		if rbErr := rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		commitErr := fmt.Errorf("%w: %w", inverrors.ErrTransactionCommit, err)
		if rbErr := rollback(); rbErr != nil {
			return errors.Join(commitErr, rbErr)
		}
		return commitErr
	}
	return nil
}
