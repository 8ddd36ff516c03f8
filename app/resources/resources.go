// Package resources shapes models into the JSON documents the API returns.
package resources

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/kasir/app/models"
)

func init() {
	// Amounts are whole currency units; clients read them as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ─── Users ───────────────────────────────────────────────────────────────────

type User struct {
	ID       uint         `json:"id"`
	Name     string       `json:"name"`
	Username string       `json:"username"`
	Level    models.Level `json:"level"`
	Deleted  bool         `json:"deleted"`
}

func NewUser(u models.User) User {
	return User{ID: u.ID, Name: u.Name, Username: u.Username, Level: u.Level, Deleted: u.Deleted}
}

func NewUsers(us []models.User) []User {
	out := make([]User, len(us))
	for i, u := range us {
		out[i] = NewUser(u)
	}
	return out
}

// Session is the body of a successful sign-in.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ─── Catalog ─────────────────────────────────────────────────────────────────

type Product struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Archived bool            `json:"archived"`
}

func NewProduct(p models.Product) Product {
	return Product{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock, Archived: p.Archived}
}

func NewProducts(ps []models.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = NewProduct(p)
	}
	return out
}

type Customer struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
}

func NewCustomer(c models.Customer) Customer {
	return Customer{ID: c.ID, Name: c.Name, Address: c.Address, PhoneNumber: c.PhoneNumber}
}

func NewCustomers(cs []models.Customer) []Customer {
	out := make([]Customer, len(cs))
	for i, c := range cs {
		out[i] = NewCustomer(c)
	}
	return out
}

// ─── Sales ───────────────────────────────────────────────────────────────────

// SaleLine is one line item. Price is the unit price at commit time.
type SaleLine struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Sale struct {
	ID           uint            `json:"id"`
	Time         time.Time       `json:"time"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
	CustomerID   *uint           `json:"customerId"`
	CustomerName *string         `json:"customerName"`
	CashierID    uint            `json:"cashierId"`
	CashierName  string          `json:"cashierName"`
	Details      []SaleLine      `json:"details"`
}

// NewSale flattens s. Customer, User and each detail's Product are used
// when loaded.
func NewSale(s models.Sale) Sale {
	out := Sale{
		ID:         s.ID,
		Time:       s.Time,
		TotalPrice: s.TotalPrice,
		CustomerID: s.CustomerID,
		CashierID:  s.UserID,
		Details:    make([]SaleLine, len(s.Details)),
	}
	if s.Customer != nil {
		name := s.Customer.Name
		out.CustomerName = &name
	}
	if s.User != nil {
		out.CashierName = s.User.Name
	}

	for i, d := range s.Details {
		line := SaleLine{
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			Subtotal:  d.Subtotal,
		}
		if d.Quantity > 0 {
			line.Price = d.Subtotal.Div(decimal.NewFromInt(int64(d.Quantity)))
		}
		if d.Product != nil {
			line.Name = d.Product.Name
		}
		out.Details[i] = line
	}
	return out
}

func NewSales(ss []models.Sale) []Sale {
	out := make([]Sale, len(ss))
	for i, s := range ss {
		out[i] = NewSale(s)
	}
	return out
}
