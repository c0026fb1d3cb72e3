package orders

import (
	"context"

	"github.com/hastkala/marketplace/internal/domain"
)

// Repository defines the interface for order data operations.
type Repository interface {
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// OrderFilter represents filter criteria for listing orders.
type OrderFilter struct {
	ArtisanID string
	Status    domain.OrderStatus
	Platform  string
	Limit     int
	Offset    int
}
