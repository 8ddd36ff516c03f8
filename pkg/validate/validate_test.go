package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kasir/pkg/validate"
)

type customerInput struct {
	Name        string `json:"name"        validate:"required,min=2"`
	Address     string `json:"address"     validate:"required,min=5"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=15,regex=^\\+?[0-9]+$"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(customerInput{Name: "Budi", Address: "Jl. Merdeka 1", PhoneNumber: "+62812345"})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(&customerInput{})
	assert.Len(t, errs, 3)
	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The phone number field is required.", errs["phoneNumber"])
}

func TestStringLengthBounds(t *testing.T) {
	errs := validate.Struct(customerInput{Name: "B", Address: "Jl. 1", PhoneNumber: "0812345678901234"})
	assert.Equal(t, "The name must be at least 2 characters.", errs["name"])
	assert.Equal(t, "The phone number must not exceed 15 characters.", errs["phoneNumber"])
	assert.NotContains(t, errs, "address")
}

func TestRegexRule(t *testing.T) {
	errs := validate.Struct(customerInput{Name: "Budi", Address: "Jl. Merdeka 1", PhoneNumber: "08-12"})
	assert.Equal(t, "The phone number format is invalid.", errs["phoneNumber"])
}

func TestInRule(t *testing.T) {
	type in struct {
		Level string `json:"level" validate:"required,in=administrator,cashier"`
	}
	assert.Contains(t, validate.Struct(in{Level: "owner"}), "level")
	assert.Empty(t, validate.Struct(in{Level: "cashier"}))
	assert.Empty(t, validate.Struct(in{Level: "administrator"}))
}

func TestInRuleFollowedByOtherRule(t *testing.T) {
	type in struct {
		Level string `json:"level" validate:"in=a,b,max=1"`
	}
	assert.Empty(t, validate.Struct(in{Level: "b"}))
	assert.Contains(t, validate.Struct(in{Level: "c"}), "level")
}

func TestNullablePointer(t *testing.T) {
	type patch struct {
		Name *string `json:"name" validate:"nullable,min=2"`
		Code *int    `json:"code" validate:"nullable,gte=0"`
	}
	assert.Empty(t, validate.Struct(patch{}))

	short := "x"
	neg := -1
	errs := validate.Struct(patch{Name: &short, Code: &neg})
	assert.Equal(t, "The name must be at least 2 characters.", errs["name"])
	assert.Equal(t, "The code must be greater than or equal to 0.", errs["code"])
}

func TestDiveIntoSliceAndStruct(t *testing.T) {
	type product struct {
		ID uint `json:"id" validate:"required"`
	}
	type line struct {
		Product  product `json:"product"  validate:"dive"`
		Quantity int     `json:"quantity" validate:"required,gte=1"`
	}
	type cart struct {
		Carts []line `json:"carts" validate:"required,dive"`
	}

	assert.Equal(t, "The carts field is required.", validate.Struct(cart{})["carts"])

	errs := validate.Struct(cart{Carts: []line{
		{Product: product{ID: 1}, Quantity: 2},
		{Product: product{}, Quantity: -1},
	}})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "carts[1].product.id")
	assert.Equal(t, "The quantity must be greater than or equal to 1.", errs["carts[1].quantity"])
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Stock int `json:"stock" validate:"gte=0,lte=1000"`
	}
	assert.Contains(t, validate.Struct(in{Stock: -5}), "stock")
	assert.Contains(t, validate.Struct(in{Stock: 1001}), "stock")
	assert.Empty(t, validate.Struct(in{Stock: 0}))
}
