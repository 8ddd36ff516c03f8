package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/pkg/apperr"
)

// ProductInput carries the editable fields of a product. Stock is an
// absolute value.
type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

// ProductService manages the catalog.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{products: repositories.NewProductRepository(db)}
}

func checkProduct(in ProductInput) error {
	if in.Price.IsNegative() || !in.Price.Equal(in.Price.Truncate(0)) {
		return apperr.New(apperr.BadRequest, "Price must be a non-negative whole amount")
	}
	if in.Stock < 0 {
		return apperr.New(apperr.BadRequest, "Stock must not be negative")
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := checkProduct(in); err != nil {
		return models.Product{}, err
	}
	p := models.Product{Name: in.Name, Price: in.Price, Stock: in.Stock}
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, fmt.Errorf("product: create: %w", err)
	}
	return p, nil
}

// Find returns an archived product as well; callers that sell must go
// through TransactionService.
func (s *ProductService) Find(ctx context.Context, id uint) (models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("product: find %d: %w", id, err)
	}
	return p, nil
}

// List returns the sellable catalog.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	out, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("product: list: %w", err)
	}
	return out, nil
}

// Update overwrites name, price and stock of an active product.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	if err := checkProduct(in); err != nil {
		return models.Product{}, err
	}
	p, err := s.Find(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if p.Archived {
		return models.Product{}, ErrProductNotFound
	}

	err = s.products.Update(ctx, id, map[string]any{
		"name":  in.Name,
		"price": in.Price,
		"stock": in.Stock,
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("product: update %d: %w", id, err)
	}
	return s.Find(ctx, id)
}

// Archive hides a product from the catalog and from new sales. Past sale
// lines keep referencing it. Archiving twice is not an error.
func (s *ProductService) Archive(ctx context.Context, id uint) error {
	if _, err := s.Find(ctx, id); err != nil {
		return err
	}
	if err := s.products.Update(ctx, id, map[string]any{"archived": true}); err != nil {
		return fmt.Errorf("product: archive %d: %w", id, err)
	}
	return nil
}
