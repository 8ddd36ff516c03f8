package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/kasir/app/models"
)

// SaleRepository handles database operations for Sale and SaleDetail.
type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) WithTx(tx *gorm.DB) *SaleRepository {
	return &SaleRepository{db: tx}
}

// CreateHeader inserts the sale row only; details are written separately.
func (r *SaleRepository) CreateHeader(ctx context.Context, s *models.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

// CreateDetails inserts all lines in one batch statement.
func (r *SaleRepository) CreateDetails(ctx context.Context, details []models.SaleDetail) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&details).Error
}

// History returns every sale, newest first, with customer, cashier and
// detail products loaded.
func (r *SaleRepository) History(ctx context.Context) ([]models.Sale, error) {
	var out []models.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("User").
		Preload("Details", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Preload("Details.Product").
		Order("time desc").Order("id desc").
		Find(&out).Error
	return out, err
}

// FindByID loads one sale with its details.
func (r *SaleRepository) FindByID(ctx context.Context, id uint) (models.Sale, error) {
	var s models.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("User").
		Preload("Details", func(tx *gorm.DB) *gorm.DB { return tx.Order("id asc") }).
		Preload("Details.Product").
		First(&s, id).Error
	return s, err
}

// DetachCustomer clears customer_id on every sale of customerID.
func (r *SaleRepository) DetachCustomer(ctx context.Context, customerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("customer_id = ?", customerID).
		Update("customer_id", nil).Error
}
