package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
)

// CustomerInput carries the editable fields of a customer.
type CustomerInput struct {
	Name        string
	Address     string
	PhoneNumber string
}

// CustomerService manages customers.
type CustomerService struct {
	db        *gorm.DB
	customers *repositories.CustomerRepository
	sales     *repositories.SaleRepository
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{
		db:        db,
		customers: repositories.NewCustomerRepository(db),
		sales:     repositories.NewSaleRepository(db),
	}
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (models.Customer, error) {
	c := models.Customer{Name: in.Name, Address: in.Address, PhoneNumber: in.PhoneNumber}
	if err := s.customers.Create(ctx, &c); err != nil {
		return models.Customer{}, fmt.Errorf("customer: create: %w", err)
	}
	return c, nil
}

func (s *CustomerService) Find(ctx context.Context, id uint) (models.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Customer{}, ErrCustomerNotFound
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("customer: find %d: %w", id, err)
	}
	return c, nil
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	out, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("customer: list: %w", err)
	}
	return out, nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (models.Customer, error) {
	if _, err := s.Find(ctx, id); err != nil {
		return models.Customer{}, err
	}
	err := s.customers.Update(ctx, id, map[string]any{
		"name":         in.Name,
		"address":      in.Address,
		"phone_number": in.PhoneNumber,
	})
	if err != nil {
		return models.Customer{}, fmt.Errorf("customer: update %d: %w", id, err)
	}
	return s.Find(ctx, id)
}

// Delete removes the customer and detaches their past sales in the same
// transaction. Sales are never deleted with a customer.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.sales.WithTx(tx).DetachCustomer(ctx, id); err != nil {
			return fmt.Errorf("customer: detach sales of %d: %w", id, err)
		}
		ok, err := s.customers.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("customer: delete %d: %w", id, err)
		}
		if !ok {
			return ErrCustomerNotFound
		}
		return nil
	})
}
