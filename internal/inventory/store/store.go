// Package store persists products, users and roles.
package store

import (
	"context"
	"time"
)

// Product is a row of the products table.
type Product struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Stock     int32     `db:"stock"`
	Price     int64     `db:"price"`
	CreatedAt time.Time `db:"created_at"`
}

// ProductStore abstracts product persistence. Sell is the only operation that mutates stock.
type ProductStore interface {
	// FindAll returns every product ordered by id.
	FindAll(ctx context.Context) ([]Product, error)

	// Create inserts a product. Stock and price are stored as given.
	Create(ctx context.Context, name string, stock int32, price int64) (*Product, error)

	// Sell decrements the stock of a product by exactly one under an exclusive row lock
	// and returns the committed row.
	// Returns ErrProductNotFound or ErrOutOfStock without mutating anything.
	// Any other error means the sale was rolled back.
	Sell(ctx context.Context, id int64) (*Product, error)

	// Ping reports whether the underlying storage is reachable.
	Ping(ctx context.Context) error
}

// User is a row of the users table joined with its role name. The password column is never loaded.
type User struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	RoleID    int64     `db:"role_id"`
	RoleName  string    `db:"role_name"`
	CreatedAt time.Time `db:"created_at"`
}

// Role is a row of the roles table.
type Role struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// UserStore abstracts user and role persistence.
type UserStore interface {
	// FindAll returns every user with its role name, ordered by id.
	FindAll(ctx context.Context) ([]User, error)

	// FindRoles returns every role ordered by id.
	FindRoles(ctx context.Context) ([]Role, error)

	// ChangeRole assigns an existing role to an existing user.
	// Returns ErrInvalidRole if the role does not exist and ErrUserNotFound if the user does not.
	ChangeRole(ctx context.Context, userID, roleID int64) (*User, error)
}
