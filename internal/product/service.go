package product

import (
	"context"
	"fmt"
	"strings"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, name, description string, price float64, stock int, category string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByCategory(ctx context.Context, category string) ([]Product, error)
	FindTopPopular(ctx context.Context) ([]PopularProduct, error)
	Update(ctx context.Context, id uint, name, description string, price float64, stock int, category string) (*Product, error)
	Delete(ctx context.Context, id uint) (bool, error)
	DecreaseStock(ctx context.Context, id uint, quantity int) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateFields(name, description string, price float64, stock int, category string) error {
	for field, v := range map[string]string{
		"name":        name,
		"description": description,
		"category":    category,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	if price < 0 {
		return ErrNegativePrice
	}
	if stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

func (s *service) Create(ctx context.Context, name, description string, price float64, stock int, category string) (*Product, error) {
	if err := validateFields(name, description, price, stock, category); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, name, description, price, stock, category)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to create product",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, err
	}

	return p, nil
}

func (s *service) FindAll(ctx context.Context) ([]Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) FindByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) FindByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.repo.FindByCategory(ctx, category)
}

func (s *service) FindTopPopular(ctx context.Context) ([]PopularProduct, error) {
	return s.repo.FindTopPopular(ctx)
}

func (s *service) Update(ctx context.Context, id uint, name, description string, price float64, stock int, category string) (*Product, error) {
	if err := validateFields(name, description, price, stock, category); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, name, description, price, stock, category)
}

func (s *service) Delete(ctx context.Context, id uint) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *service) DecreaseStock(ctx context.Context, id uint, quantity int) (bool, error) {
	return s.repo.DecreaseStock(ctx, id, quantity)
}
