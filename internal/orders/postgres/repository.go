// Package postgres provides the PostgreSQL implementation of the orders
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/orders"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the orders.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const orderColumns = `
	id, artisan_id, platform, external_ref, status, buyer_name,
	gross_amount, net_amount, currency, created_at, updated_at
`

// GetOrderByID retrieves an order with its line items.
func (r *Repository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, orders.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	items, err := r.getItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListOrders retrieves a page of orders matching the filter with the total
// count of matching rows.
func (r *Repository) ListOrders(ctx context.Context, filter orders.OrderFilter) ([]domain.Order, int, error) {
	where := " WHERE artisan_id = $1"
	args := []interface{}{filter.ArtisanID}
	argNum := 2

	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filter.Status)
		argNum++
	}
	if filter.Platform != "" {
		where += fmt.Sprintf(" AND platform = $%d", argNum)
		args = append(args, filter.Platform)
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range result {
		items, err := r.getItems(ctx, result[i].ID)
		if err != nil {
			return nil, 0, err
		}
		result[i].Items = items
	}

	return result, total, nil
}

// UpdateOrderStatus sets the order status and returns the updated order.
func (r *Repository) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	query := `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, orders.ErrOrderNotFound
	}
	return r.GetOrderByID(ctx, id)
}

func (r *Repository) getItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, listing_id, title, qty, unit_price
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ListingID, &item.Title, &item.Qty, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.ArtisanID,
		&order.Platform,
		&order.ExternalRef,
		&order.Status,
		&order.BuyerName,
		&order.GrossAmount,
		&order.NetAmount,
		&order.Currency,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
