package models

import "time"

// OrderStatus tracks an order through its delivery lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderPreparing OrderStatus = "PREPARING"
	OrderOnTheWay  OrderStatus = "ON_THE_WAY"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether the status is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderOnTheWay, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order is a customer purchase against a single restaurant.
type Order struct {
	ID           string      `db:"id" json:"id"`
	UserID       string      `db:"user_id" json:"user_id"`
	RestaurantID string      `db:"restaurant_id" json:"restaurant_id"`
	Total        float64     `db:"total" json:"total"`
	DeliveryFee  float64     `db:"delivery_fee" json:"delivery_fee"`
	Status       OrderStatus `db:"status" json:"status"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is a menu item captured at order time with its unit price.
type OrderItem struct {
	ID         string  `db:"id" json:"id"`
	OrderID    string  `db:"order_id" json:"order_id"`
	MenuItemID string  `db:"menu_item_id" json:"menu_item_id"`
	Name       string  `db:"name" json:"name"`
	UnitPrice  float64 `db:"unit_price" json:"unit_price"`
	Quantity   int     `db:"quantity" json:"quantity"`
}

// OrderFilter captures listing criteria for orders.
type OrderFilter struct {
	UserID       string
	RestaurantID string
	Status       *OrderStatus
	Page         int
	PageSize     int
}
