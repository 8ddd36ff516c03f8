package controllers

import (
	"github.com/shashiranjanraj/kasir/app/resources"
	"github.com/shashiranjanraj/kasir/app/services"
	"github.com/shashiranjanraj/kasir/pkg/ctx"
)

type TransactionController struct {
	transactions *services.TransactionService
}

func NewTransactionController(transactions *services.TransactionService) *TransactionController {
	return &TransactionController{transactions: transactions}
}

// Store handles POST /api/transactions. The cashier is the signed-in user.
func (tc *TransactionController) Store(c *ctx.Context) {
	cashier, ok := c.MustIdentity()
	if !ok {
		return
	}
	var in CreateTransactionRequest
	if !c.BindJSON(&in) {
		return
	}

	cart := make([]services.CartLine, len(in.Carts))
	for i, item := range in.Carts {
		cart[i] = services.CartLine{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
		}
	}

	sale, err := tc.transactions.CommitSale(c.Context(), services.CommitInput{
		Cart:         cart,
		ClaimedTotal: *in.TotalPrice,
		CustomerID:   in.CustomerID,
		CashierID:    cashier.UserID,
	})
	if err != nil {
		c.Fail(err)
		return
	}

	// reload so the response carries names
	stored, err := tc.transactions.Find(c.Context(), sale.ID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.NewSale(stored))
}

// Index handles GET /api/transactions.
func (tc *TransactionController) Index(c *ctx.Context) {
	sales, err := tc.transactions.History(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewSales(sales))
}

// Show handles GET /api/transactions/{id}.
func (tc *TransactionController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	sale, err := tc.transactions.Find(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.NewSale(sale))
}
