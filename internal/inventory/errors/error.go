// Package errors provides the sentinel errors of the inventory domain.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrOutOfStock = errors.New("out of stock, sale rejected")
var ErrTransactionFailed = errors.New("sale transaction failed")

var ErrFailedToFindProducts = errors.New("failed to find products")
var ErrCreateProduct = errors.New("failed to create product")
var ErrLockProduct = errors.New("failed to lock product")
var ErrDecrementStock = errors.New("failed to decrement stock")

var ErrUserNotFound = errors.New("user not found")
var ErrInvalidRole = errors.New("invalid role id")
var ErrFailedToFindUsers = errors.New("failed to find users")
var ErrFailedToFindRoles = errors.New("failed to find roles")
var ErrChangeRole = errors.New("failed to change user role")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
