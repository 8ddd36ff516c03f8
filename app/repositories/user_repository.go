package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID returns the user whether deleted or not.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return u, err
}

// FindActiveByUsername ignores deleted users.
func (r *UserRepository) FindActiveByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("username = ? AND deleted = ?", username, false).
		First(&u).Error
	return u, err
}

// UsernameTaken reports whether another user than exceptID owns username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, exceptID).
		Count(&n).Error
	return n > 0, err
}

// Update applies fields to user id.
func (r *UserRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// List returns users ordered by id; deleted users only when includeDeleted.
func (r *UserRepository) List(ctx context.Context, includeDeleted bool) ([]models.User, error) {
	q := r.db.WithContext(ctx).Order("id asc")
	if !includeDeleted {
		q = q.Where("deleted = ?", false)
	}
	var out []models.User
	err := q.Find(&out).Error
	return out, err
}
