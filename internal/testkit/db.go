// Package testkit holds helpers shared by package tests: a migrated sqlite
// database per test and a table-driven HTTP scenario runner.
package testkit

import (
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	_ "github.com/shashiranjanraj/kasir/database/migrations"
	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/database"
	"github.com/shashiranjanraj/kasir/pkg/migration"
)

// DSNParams are appended to every test database file.
const DSNParams = "?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"

// OpenDB returns a fully migrated sqlite database living in t.TempDir. It is
// closed when the test ends.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	auth.HashCost = bcrypt.MinCost

	path := filepath.Join(t.TempDir(), "kasir.db")
	db, err := database.Open("sqlite", path+DSNParams)
	require.NoError(t, err, "open test database")

	_, err = migration.New(db).WithOutput(io.Discard).Run()
	require.NoError(t, err, "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// ─── Fixtures ────────────────────────────────────────────────────────────────

// Product inserts an active product.
func Product(t *testing.T, db *gorm.DB, name string, price int64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.NewFromInt(price), Stock: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// Customer inserts a customer.
func Customer(t *testing.T, db *gorm.DB, name string) models.Customer {
	t.Helper()
	c := models.Customer{Name: name, Address: "Jl. Merdeka 1", PhoneNumber: "+62811000"}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// User inserts an account whose password is "password123".
func User(t *testing.T, db *gorm.DB, username string, level models.Level) models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	u := models.User{
		Name:     fmt.Sprintf("User %s", username),
		Username: username,
		Password: hash,
		Level:    level,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// Token signs a session token for u.
func Token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(u.ID, string(u.Level))
	require.NoError(t, err)
	return tok
}

// Count returns the row count of model's table.
func Count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

// Stock reloads the stock of product id.
func Stock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}
