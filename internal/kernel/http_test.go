package kernel

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/internal/testkit"
	"github.com/shashiranjanraj/kasir/pkg/middleware"
)

type fixture struct {
	db      *gorm.DB
	handler http.Handler
	admin   models.User
	cashier models.User
	adminT  string
	cashT   string
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testkit.OpenDB(t)
	f := fixture{
		db:      db,
		handler: NewHTTPKernel(db, middleware.NewMemoryStore()).Handler(),
		admin:   testkit.User(t, db, "admin", models.LevelAdministrator),
		cashier: testkit.User(t, db, "kasir", models.LevelCashier),
	}
	f.adminT = testkit.Token(t, f.admin)
	f.cashT = testkit.Token(t, f.cashier)
	return f
}

func cart(id uint, qty int) map[string]any {
	return map[string]any{"product": map[string]any{"id": id}, "quantity": qty}
}

func TestTransactionEndpoint(t *testing.T) {
	f := setup(t)
	kopi := testkit.Product(t, f.db, "Kopi", 1000, 5)
	teh := testkit.Product(t, f.db, "Teh", 2500, 1)
	customer := testkit.Customer(t, f.db, "Budi")

	testkit.Run(t, f.handler, []testkit.Scenario{
		{
			Name:         "requires a session",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Body:         map[string]any{"carts": []any{cart(kopi.ID, 1)}, "totalPrice": 1000},
			ExpectedCode: http.StatusUnauthorized,
			Expect:       map[string]any{"code": "UNAUTHORIZED"},
		},
		{
			Name:         "commits a sale",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Token:        f.cashT,
			Body:         map[string]any{"carts": []any{cart(kopi.ID, 3), cart(teh.ID, 1)}, "customerId": customer.ID, "totalPrice": 5500},
			ExpectedCode: http.StatusCreated,
			Expect: map[string]any{
				"status":                  float64(201),
				"data.totalPrice":         float64(5500),
				"data.customerName":       "Budi",
				"data.cashierName":        f.cashier.Name,
				"data.details.0.name":     "Kopi",
				"data.details.0.price":    float64(1000),
				"data.details.0.subtotal": float64(3000),
				"data.details.1.quantity": float64(1),
			},
		},
		{
			Name:         "sold out product",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Token:        f.cashT,
			Body:         map[string]any{"carts": []any{cart(teh.ID, 1)}, "totalPrice": 2500},
			ExpectedCode: http.StatusNotFound,
			Expect: map[string]any{
				"code":    "NOT_FOUND",
				"message": "These products are not available: \nTeh",
			},
		},
		{
			Name:         "stale total",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Token:        f.cashT,
			Body:         map[string]any{"carts": []any{cart(kopi.ID, 1)}, "totalPrice": 999},
			ExpectedCode: http.StatusForbidden,
			Expect:       map[string]any{"code": "FORBIDDEN", "message": "Total price is not valid"},
		},
		{
			Name:         "empty cart",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Token:        f.cashT,
			Body:         map[string]any{"carts": []any{}, "totalPrice": 0},
			ExpectedCode: http.StatusUnprocessableEntity,
			Expect:       map[string]any{"code": "BAD_REQUEST"},
		},
		{
			Name:         "zero quantity",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Token:        f.cashT,
			Body:         map[string]any{"carts": []any{cart(kopi.ID, 0)}, "totalPrice": 0},
			ExpectedCode: http.StatusUnprocessableEntity,
			Expect:       map[string]any{"code": "BAD_REQUEST", "message": "Validation failed"},
		},
		{
			Name:         "oversized quantity",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Token:        f.cashT,
			Body:         map[string]any{"carts": []any{cart(kopi.ID, 1<<40)}, "totalPrice": 0},
			ExpectedCode: http.StatusUnprocessableEntity,
			Expect:       map[string]any{"code": "BAD_REQUEST", "message": "Validation failed"},
		},
		{
			Name:         "merged quantity overflows",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Token:        f.cashT,
			Body:         map[string]any{"carts": []any{cart(kopi.ID, math.MaxInt32), cart(kopi.ID, math.MaxInt32)}, "totalPrice": 0},
			ExpectedCode: http.StatusBadRequest,
			Expect:       map[string]any{"code": "BAD_REQUEST"},
		},
		{
			Name:         "malformed json",
			Method:       http.MethodPost,
			URL:          "/api/transactions",
			Token:        f.cashT,
			Body:         `{"carts":`,
			ExpectedCode: http.StatusBadRequest,
		},
		{
			Name:         "history",
			Method:       http.MethodGet,
			URL:          "/api/transactions",
			Token:        f.cashT,
			ExpectedCode: http.StatusOK,
			Expect: map[string]any{
				"data.0.totalPrice":   float64(5500),
				"data.0.customerName": "Budi",
			},
			Absent: []string{"data.1"},
		},
	})

	assert.Equal(t, 2, testkit.Stock(t, f.db, kopi.ID))
	assert.Equal(t, 0, testkit.Stock(t, f.db, teh.ID))
}

func TestSessionEndpoints(t *testing.T) {
	f := setup(t)

	rec := testkit.Do(t, f.handler, testkit.Scenario{
		Method: http.MethodPost,
		URL:    "/api/session",
		Body:   map[string]any{"username": "kasir", "password": "password123"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	testkit.Run(t, f.handler, []testkit.Scenario{
		{
			Name:         "cookie resolves",
			URL:          "/api/session",
			Token:        cookie.Value,
			ExpectedCode: http.StatusOK,
			Expect:       map[string]any{"data.username": "kasir", "data.level": "cashier"},
			Absent:       []string{"data.password"},
		},
		{
			Name:         "bearer header resolves",
			URL:          "/api/users/me",
			Headers:      map[string]string{"Authorization": "Bearer " + cookie.Value},
			ExpectedCode: http.StatusOK,
			Expect:       map[string]any{"data.id": float64(f.cashier.ID)},
		},
		{
			Name:         "wrong password",
			Method:       http.MethodPost,
			URL:          "/api/session",
			Body:         map[string]any{"username": "kasir", "password": "nope-nope"},
			ExpectedCode: http.StatusUnauthorized,
			Expect:       map[string]any{"message": "Invalid credentials"},
		},
		{
			Name:         "garbage token",
			URL:          "/api/session",
			Token:        "garbage",
			ExpectedCode: http.StatusUnauthorized,
		},
		{
			Name:         "logout",
			Method:       http.MethodDelete,
			URL:          "/api/session",
			Token:        cookie.Value,
			ExpectedCode: http.StatusOK,
		},
	})
}

func TestAdministratorOnlyRoutes(t *testing.T) {
	f := setup(t)
	kopi := testkit.Product(t, f.db, "Kopi", 1000, 5)

	testkit.Run(t, f.handler, []testkit.Scenario{
		{
			Name:         "cashier cannot create products",
			Method:       http.MethodPost,
			URL:          "/api/products",
			Token:        f.cashT,
			Body:         map[string]any{"name": "Teh", "price": 2000, "stock": 3},
			ExpectedCode: http.StatusForbidden,
		},
		{
			Name:         "admin creates a product",
			Method:       http.MethodPost,
			URL:          "/api/products",
			Token:        f.adminT,
			Body:         map[string]any{"name": "Teh", "price": 2000, "stock": 3},
			ExpectedCode: http.StatusCreated,
			Expect:       map[string]any{"data.name": "Teh", "data.price": float64(2000)},
		},
		{
			Name:         "admin sets absolute stock",
			Method:       http.MethodPut,
			URL:          fmt.Sprintf("/api/products/%d", kopi.ID),
			Token:        f.adminT,
			Body:         map[string]any{"name": "Kopi", "price": 1200, "stock": 40},
			ExpectedCode: http.StatusOK,
			Expect:       map[string]any{"data.stock": float64(40), "data.price": float64(1200)},
		},
		{
			Name:         "admin archives",
			Method:       http.MethodDelete,
			URL:          fmt.Sprintf("/api/products/%d", kopi.ID),
			Token:        f.adminT,
			ExpectedCode: http.StatusOK,
		},
		{
			Name:         "catalog hides archived",
			URL:          "/api/products",
			Token:        f.cashT,
			ExpectedCode: http.StatusOK,
			Expect:       map[string]any{"data.0.name": "Teh"},
			Absent:       []string{"data.1"},
		},
		{
			Name:         "cashier cannot list users",
			URL:          "/api/users",
			Token:        f.cashT,
			ExpectedCode: http.StatusForbidden,
		},
		{
			Name:         "admin lists users",
			URL:          "/api/users?include_deleted=true",
			Token:        f.adminT,
			ExpectedCode: http.StatusOK,
			Expect:       map[string]any{"data.0.username": "admin", "data.1.username": "kasir"},
		},
		{
			Name:         "invalid product id",
			URL:          "/api/products/abc",
			Token:        f.cashT,
			ExpectedCode: http.StatusNotFound,
		},
	})
}

func TestUserEndpoints(t *testing.T) {
	f := setup(t)

	testkit.Run(t, f.handler, []testkit.Scenario{
		{
			Name:         "validation",
			Method:       http.MethodPost,
			URL:          "/api/users",
			Token:        f.adminT,
			Body:         map[string]any{"name": "A", "username": "bad name", "password": "short", "level": "owner"},
			ExpectedCode: http.StatusUnprocessableEntity,
			Expect: map[string]any{
				"errors.name":     "The name must be at least 2 characters.",
				"errors.username": "The username format is invalid.",
				"errors.password": "The password must be at least 8 characters.",
				"errors.level":    "The selected level is invalid.",
			},
		},
		{
			Name:         "duplicate username",
			Method:       http.MethodPost,
			URL:          "/api/users",
			Token:        f.adminT,
			Body:         map[string]any{"name": "Kasir Dua", "username": "kasir", "password": "password123", "level": "cashier"},
			ExpectedCode: http.StatusConflict,
		},
		{
			Name:         "cashier cannot edit another user",
			Method:       http.MethodPut,
			URL:          fmt.Sprintf("/api/users/%d", f.admin.ID),
			Token:        f.cashT,
			Body:         map[string]any{"name": "Hacked"},
			ExpectedCode: http.StatusForbidden,
		},
		{
			Name:         "cashier cannot promote self",
			Method:       http.MethodPut,
			URL:          fmt.Sprintf("/api/users/%d", f.cashier.ID),
			Token:        f.cashT,
			Body:         map[string]any{"level": "administrator"},
			ExpectedCode: http.StatusForbidden,
		},
	})

	// own password change issues a fresh cookie
	rec := testkit.Do(t, f.handler, testkit.Scenario{
		Method: http.MethodPut,
		URL:    fmt.Sprintf("/api/users/%d", f.cashier.ID),
		Token:  f.cashT,
		Body:   map[string]any{"password": "newpassword1"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, strings.Contains(rec.Header().Get("Set-Cookie"), "session="))

	rec = testkit.Do(t, f.handler, testkit.Scenario{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("/api/users/%d", f.cashier.ID),
		Token:  f.adminT,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = testkit.Do(t, f.handler, testkit.Scenario{URL: "/api/users/me", Token: f.cashT})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerEndpoints(t *testing.T) {
	f := setup(t)

	rec := testkit.Do(t, f.handler, testkit.Scenario{
		Method: http.MethodPost,
		URL:    "/api/customers",
		Token:  f.cashT,
		Body:   map[string]any{"name": "Budi", "address": "Jl. Sudirman 5", "phoneNumber": "+62812345"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := testkit.Decode(t, rec)["data"].(map[string]any)["id"].(float64)

	testkit.Run(t, f.handler, []testkit.Scenario{
		{
			Name:         "bad phone number",
			Method:       http.MethodPost,
			URL:          "/api/customers",
			Token:        f.cashT,
			Body:         map[string]any{"name": "Budi", "address": "Jl. Sudirman 5", "phoneNumber": "08-12"},
			ExpectedCode: http.StatusUnprocessableEntity,
			Expect:       map[string]any{"errors.phoneNumber": "The phone number format is invalid."},
		},
		{
			Name:         "update",
			Method:       http.MethodPut,
			URL:          fmt.Sprintf("/api/customers/%d", int(id)),
			Token:        f.cashT,
			Body:         map[string]any{"name": "Budi S", "address": "Jl. Sudirman 7", "phoneNumber": "0812"},
			ExpectedCode: http.StatusOK,
			Expect:       map[string]any{"data.name": "Budi S"},
		},
		{
			Name:         "delete",
			Method:       http.MethodDelete,
			URL:          fmt.Sprintf("/api/customers/%d", int(id)),
			Token:        f.cashT,
			ExpectedCode: http.StatusOK,
		},
		{
			Name:         "delete again",
			Method:       http.MethodDelete,
			URL:          fmt.Sprintf("/api/customers/%d", int(id)),
			Token:        f.cashT,
			ExpectedCode: http.StatusNotFound,
		},
	})
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	f := setup(t)

	testkit.Run(t, f.handler, []testkit.Scenario{
		{
			Name:         "unknown route",
			URL:          "/api/nope",
			ExpectedCode: http.StatusNotFound,
			Expect:       map[string]any{"code": "NOT_FOUND"},
		},
	})

	rec := testkit.Do(t, f.handler, testkit.Scenario{URL: "/metrics"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kasir_http_requests_total")
}

func TestRouteNames(t *testing.T) {
	db := testkit.OpenDB(t)
	r := NewHTTPKernel(db, middleware.NewMemoryStore()).Router()

	path, ok := r.Path("transaction.create")
	assert.True(t, ok)
	assert.Equal(t, "/api/transactions", path)

	url, err := r.URL("product.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/7", url)
}
