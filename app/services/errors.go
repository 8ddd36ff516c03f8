package services

import (
	"errors"
	"strings"

	"github.com/shashiranjanraj/kasir/pkg/apperr"
)

var (
	ErrProductNotFound  = apperr.New(apperr.NotFound, "Product not found")
	ErrCustomerNotFound = apperr.New(apperr.NotFound, "Customer not found")
	ErrUserNotFound     = apperr.New(apperr.NotFound, "User not found")

	// ErrTotalMismatch rejects a sale whose claimed total differs from the
	// server-computed one.
	ErrTotalMismatch = apperr.New(apperr.Forbidden, "Total price is not valid")

	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "Invalid credentials")
	ErrSessionRevoked     = apperr.New(apperr.Unauthorized, "Session expired, please sign in again")
	ErrUsernameTaken      = apperr.New(apperr.Conflict, "Username is already taken")
	ErrNotAllowed         = apperr.New(apperr.Forbidden, "You are not allowed to modify this user")
	ErrLevelChange        = apperr.New(apperr.Forbidden, "Only an administrator can change a user level")
)

// ProductUnavailableError lists cart products that do not exist, are
// archived, or lack stock for the requested quantity.
type ProductUnavailableError struct {
	Products []string
}

func (e *ProductUnavailableError) Error() string {
	return "These products are not available: \n" + strings.Join(e.Products, "\n")
}

func (e *ProductUnavailableError) Kind() apperr.Kind { return apperr.NotFound }

// PersistenceError wraps a store failure during a sale commit. Nothing of
// the sale was written.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "transaction: persistence failure: " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Kind() apperr.Kind { return apperr.Internal }

// IsProductUnavailable reports whether err is a *ProductUnavailableError.
func IsProductUnavailable(err error) bool {
	var pu *ProductUnavailableError
	return errors.As(err, &pu)
}
