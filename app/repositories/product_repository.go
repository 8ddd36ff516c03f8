package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/kasir/app/models"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID returns gorm.ErrRecordNotFound when id does not exist.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, err
}

// FindByIDs returns the products among ids that exist, archived or not.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// ListActive returns every non-archived product ordered by name.
func (r *ProductRepository) ListActive(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := r.db.WithContext(ctx).
		Where("archived = ?", false).
		Order("name asc").Order("id asc").
		Find(&out).Error
	return out, err
}

// Update applies fields to product id.
func (r *ProductRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

// FindSellable reads product id only if it is not archived and holds at
// least qty units. With lock set the row is held FOR UPDATE until the
// surrounding transaction ends.
func (r *ProductRepository) FindSellable(ctx context.Context, id uint, qty int, lock bool) (models.Product, bool, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var p models.Product
	res := q.Where("id = ? AND archived = ? AND stock >= ?", id, false, qty).Limit(1).Find(&p)
	if res.Error != nil {
		return models.Product{}, false, res.Error
	}
	return p, res.RowsAffected > 0, nil
}

// DecrementStock subtracts qty from product id only while enough stock and
// the product is still sellable. It reports whether a row changed.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND archived = ? AND stock >= ?", id, false, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected == 1, res.Error
}
