package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"

	"go.uber.org/zap"
)

type Service interface {
	PlaceOrder(ctx context.Context, userID uint, items []CartItem, customer Customer, paymentMethod string) (*Detail, error)
	FindByID(ctx context.Context, id uint) (*Detail, error)
	FindByUserID(ctx context.Context, userID uint) ([]Detail, error)
	FindCompletedByUserID(ctx context.Context, userID uint) ([]Detail, error)
	FindAll(ctx context.Context) ([]Detail, error)
	UpdateStatus(ctx context.Context, id uint, status Status) (*Order, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type service struct {
	repo    Repository
	catalog product.Service
	stats   *metrics.Metrics
}

func NewService(repo Repository, catalog product.Service, stats *metrics.Metrics) Service {
	return &service{repo: repo, catalog: catalog, stats: stats}
}

// PlaceOrder runs the checkout workflow: resolve products and prices, compute
// the total, then persist order, items, and stock decrements transactionally.
// Unit prices come from the catalog at call time; a price change after the
// commit does not touch the stored total.
func (s *service) PlaceOrder(ctx context.Context, userID uint, items []CartItem, customer Customer, paymentMethod string) (*Detail, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Uint("user_id", userID),
		zap.Int("item_count", len(items)),
	)
	timer := metrics.StartTimer()

	if err := validateCart(items); err != nil {
		s.stats.OrdersRejected.Inc()
		return nil, err
	}
	if err := validateCustomer(customer, paymentMethod); err != nil {
		s.stats.OrdersRejected.Inc()
		return nil, err
	}

	// Phase 1: resolve every product before any mutation. The price on the
	// fetched row becomes the item's unit price.
	resolved := make([]Item, 0, len(items))
	var total float64

	for _, it := range items {
		p, err := s.catalog.FindByID(ctx, it.ProductID)
		if err != nil {
			log.Error("product lookup failed", zap.Uint("product_id", it.ProductID), zap.Error(err))
			return nil, err
		}
		if p == nil {
			s.stats.OrdersRejected.Inc()
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, it.ProductID)
		}
		if p.Stock < it.Quantity {
			s.stats.StockConflicts.Inc()
			return nil, fmt.Errorf("%w: product %d", ErrInsufficientStock, it.ProductID)
		}

		resolved = append(resolved, Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		})
		total += float64(it.Quantity) * p.Price
	}

	o := &Order{
		UserID:            userID,
		Status:            StatusComplete,
		CustomerFirstName: customer.FirstName,
		CustomerLastName:  customer.LastName,
		CustomerEmail:     customer.Email,
		CustomerAddress:   customer.Address,
		PaymentMethod:     paymentMethod,
		TotalAmount:       total,
	}

	orderID, err := s.repo.CreateOrder(ctx, o, resolved)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.stats.StockConflicts.Inc()
		}
		log.Error("failed to persist order",
			zap.Error(err),
			zap.Duration("duration", timer.Duration()),
		)
		return nil, err
	}

	detail, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.stats.OrdersPlaced.Inc()
	log.Info("order placed",
		zap.Uint("order_id", orderID),
		zap.Float64("total_amount", total),
		zap.Duration("duration", timer.Duration()),
	)

	return detail, nil
}

func validateCart(items []CartItem) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return ErrEmptyCart
		}
	}
	return nil
}

func validateCustomer(c Customer, paymentMethod string) error {
	for _, v := range []string{c.FirstName, c.LastName, c.Email, c.Address, paymentMethod} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingCustomer
		}
	}
	return nil
}

func (s *service) FindByID(ctx context.Context, id uint) (*Detail, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) FindByUserID(ctx context.Context, userID uint) ([]Detail, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *service) FindCompletedByUserID(ctx context.Context, userID uint) ([]Detail, error) {
	return s.repo.FindCompletedByUserID(ctx, userID)
}

func (s *service) FindAll(ctx context.Context) ([]Detail, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, id uint, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) Delete(ctx context.Context, id uint) (bool, error) {
	return s.repo.Delete(ctx, id)
}
