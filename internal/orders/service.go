// Package orders tracks orders imported from selling platforms. The
// marketplace records and reports on them, it does not process payments.
package orders

import (
	"context"
	"fmt"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
)

// Service implements order business logic.
type Service struct {
	repo Repository
}

// NewService creates a new orders service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListOrders returns the caller's orders.
func (s *Service) ListOrders(ctx context.Context, id auth.Identity, filter OrderFilter) ([]domain.Order, int, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
	}
	filter.ArtisanID = id.ArtisanID
	return s.repo.ListOrders(ctx, filter)
}

// GetOrder returns a single caller-owned order.
func (s *Service) GetOrder(ctx context.Context, id auth.Identity, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwnership(id, order.ArtisanID); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves a caller-owned order to a new status. The status must be
// one of the enumerated values.
func (s *Service) UpdateStatus(ctx context.Context, id auth.Identity, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwnership(id, order.ArtisanID); err != nil {
		return nil, err
	}

	return s.repo.UpdateOrderStatus(ctx, orderID, status)
}
