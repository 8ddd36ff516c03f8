package resources

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kasir/app/models"
)

func TestNewSale(t *testing.T) {
	cid := uint(4)
	s := models.Sale{
		ID:         9,
		Time:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		TotalPrice: decimal.NewFromInt(7500),
		CustomerID: &cid,
		Customer:   &models.Customer{ID: 4, Name: "Budi"},
		UserID:     2,
		User:       &models.User{ID: 2, Name: "Sari"},
		Details: []models.SaleDetail{
			{ProductID: 1, Quantity: 3, Subtotal: decimal.NewFromInt(4500), Product: &models.Product{Name: "Kopi", Price: decimal.NewFromInt(9999)}},
			{ProductID: 2, Quantity: 1, Subtotal: decimal.NewFromInt(3000)},
		},
	}

	got := NewSale(s)
	require.NotNil(t, got.CustomerName)
	assert.Equal(t, "Budi", *got.CustomerName)
	assert.Equal(t, "Sari", got.CashierName)
	assert.Equal(t, "Kopi", got.Details[0].Name)
	assert.True(t, decimal.NewFromInt(1500).Equal(got.Details[0].Price), "price at commit, not current price")
	assert.Equal(t, "", got.Details[1].Name)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, float64(7500), doc["totalPrice"])
	assert.Equal(t, "Budi", doc["customerName"])
}

func TestNewSaleWithoutCustomer(t *testing.T) {
	got := NewSale(models.Sale{ID: 1, TotalPrice: decimal.NewFromInt(1)})

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Nil(t, doc["customerId"])
	assert.Nil(t, doc["customerName"])
	assert.Equal(t, []any{}, doc["details"])
}

func TestNewUserHidesPassword(t *testing.T) {
	raw, err := json.Marshal(NewUser(models.User{ID: 1, Username: "sari", Password: "hash", Level: models.LevelCashier}))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.Contains(t, string(raw), `"level":"cashier"`)
}
