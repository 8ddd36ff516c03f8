package controllers

import "github.com/shopspring/decimal"

// ─── Session ─────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ─── Users ───────────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=255"`
	Username string `json:"username" validate:"required,max=50,regex=^[a-zA-Z0-9_]+$"`
	Password string `json:"password" validate:"required,min=8"`
	Level    string `json:"level"    validate:"required,in=administrator,cashier"`
}

// UpdateUserRequest leaves a field unchanged when it is omitted.
type UpdateUserRequest struct {
	Name     *string `json:"name"     validate:"nullable,min=2,max=255"`
	Username *string `json:"username" validate:"nullable,max=50,regex=^[a-zA-Z0-9_]+$"`
	Password *string `json:"password" validate:"nullable,min=8"`
	Level    *string `json:"level"    validate:"nullable,in=administrator,cashier"`
}

// ─── Customers ───────────────────────────────────────────────────────────────

type CustomerRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=255"`
	Address     string `json:"address"     validate:"required,min=5,max=500"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=15,regex=^\\+?[0-9]+$"`
}

// ─── Products ────────────────────────────────────────────────────────────────

type ProductRequest struct {
	Name  string           `json:"name"  validate:"required,min=2,max=255"`
	Price *decimal.Decimal `json:"price" validate:"required"`
	Stock int              `json:"stock" validate:"gte=0"`
}

// ─── Transactions ────────────────────────────────────────────────────────────

// CartProduct is the product snapshot a client holds in its cart. Only ID
// is authoritative; Name is used to describe a product that no longer
// exists.
type CartProduct struct {
	ID    uint             `json:"id"    validate:"required"`
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price"`
	Stock *int             `json:"stock"`
}

type CartItem struct {
	Product  *CartProduct `json:"product"  validate:"required,dive"`
	Quantity int          `json:"quantity" validate:"required,gte=1,lte=2147483647"`
}

type CreateTransactionRequest struct {
	Carts      []CartItem       `json:"carts"      validate:"required,dive"`
	CustomerID *uint            `json:"customerId" validate:"nullable,gte=1"`
	TotalPrice *decimal.Decimal `json:"totalPrice" validate:"required"`
}
