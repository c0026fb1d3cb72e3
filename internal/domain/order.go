package domain

import "time"

// OrderStatus represents the fulfillment state of an order.
type OrderStatus string

// Order statuses.
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the order status is one of the known values.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents an order placed against an artisan, imported from a
// selling platform. The marketplace tracks orders, it does not process them.
type Order struct {
	ID          string      `json:"id"`
	ArtisanID   string      `json:"artisan_id"`
	Platform    string      `json:"platform"`
	ExternalRef string      `json:"external_ref,omitempty"`
	Status      OrderStatus `json:"status"`
	BuyerName   string      `json:"buyer_name,omitempty"`
	GrossAmount float64     `json:"gross_amount"`
	NetAmount   float64     `json:"net_amount"`
	Currency    string      `json:"currency"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem is a single line of an order, optionally linked to a listing.
type OrderItem struct {
	ID        string   `json:"id"`
	OrderID   string   `json:"order_id"`
	ListingID *string  `json:"listing_id,omitempty"`
	Title     string   `json:"title"`
	Qty       int      `json:"qty"`
	UnitPrice float64  `json:"unit_price"`
	Listing   *Listing `json:"listing,omitempty"`
}
