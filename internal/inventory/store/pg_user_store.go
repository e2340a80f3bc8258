package store

import (
	"context"
	"errors"
	"fmt"

	inverrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	findAllUsersSQL = `SELECT u.id, u.name, u.email, u.role_id, r.name AS role_name, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.id
		ORDER BY u.id ASC`
	findRolesSQL  = `SELECT id, name FROM roles ORDER BY id ASC`
	roleExistsSQL = `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`
	changeRoleSQL = `WITH updated AS (
			UPDATE users SET role_id = $1 WHERE id = $2
			RETURNING id, name, email, role_id, created_at
		)
		SELECT updated.id, updated.name, updated.email, updated.role_id, r.name AS role_name, updated.created_at
		FROM updated
		JOIN roles r ON updated.role_id = r.id`
)

var _ UserStore = (*PgUserStore)(nil)

type PgUserStore struct {
	db *pgxpool.Pool
	tx txBeginner
}

// NewPgUserStore creates a UserStore backed by PostgreSQL.
func NewPgUserStore(dbp *pgxpool.Pool) *PgUserStore {
	return &PgUserStore{db: dbp, tx: dbp}
}

func (p *PgUserStore) FindAll(ctx context.Context) ([]User, error) {
	rows, err := p.db.Query(ctx, findAllUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrFailedToFindUsers, err)
	}
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[User])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrFailedToFindUsers, err)
	}
	return users, nil
}

func (p *PgUserStore) FindRoles(ctx context.Context) ([]Role, error) {
	rows, err := p.db.Query(ctx, findRolesSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrFailedToFindRoles, err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowToStructByName[Role])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", inverrors.ErrFailedToFindRoles, err)
	}
	return roles, nil
}

// ChangeRole checks the role and updates the user inside one transaction.
func (p *PgUserStore) ChangeRole(ctx context.Context, userID, roleID int64) (*User, error) {
	var user User
	txErr := runInTx(ctx, p.tx, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, roleExistsSQL, roleID).Scan(&exists); err != nil {
			return fmt.Errorf("%w: %w", inverrors.ErrChangeRole, err)
		}
		if !exists {
			return inverrors.ErrInvalidRole
		}
		rows, err := tx.Query(ctx, changeRoleSQL, roleID, userID)
		if err != nil {
			return fmt.Errorf("%w: %w", inverrors.ErrChangeRole, err)
		}
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[User])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return inverrors.ErrUserNotFound
			}
			return fmt.Errorf("%w: %w", inverrors.ErrChangeRole, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &user, nil
}
