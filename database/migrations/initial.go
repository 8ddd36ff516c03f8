package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_customers_table", &CreateCustomersTable{})
	migration.Register("20260301000002_create_products_table", &CreateProductsTable{})
	migration.Register("20260301000003_create_sales_table", &CreateSalesTable{})
	migration.Register("20260301000004_create_sale_details_table", &CreateSaleDetailsTable{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

// -------- 0001: customers --------

type CreateCustomersTable struct{}

func (m *CreateCustomersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Customer{})
}

func (m *CreateCustomersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Customer{})
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}

// -------- 0003: sales --------

type CreateSalesTable struct{}

func (m *CreateSalesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Sale{})
}

func (m *CreateSalesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Sale{})
}

// -------- 0004: sale_details --------

type CreateSaleDetailsTable struct{}

func (m *CreateSaleDetailsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.SaleDetail{})
}

func (m *CreateSaleDetailsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.SaleDetail{})
}
