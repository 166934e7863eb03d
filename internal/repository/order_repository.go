package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quickbite/quickbite-api/internal/models"
)

// OrderRepository handles persistence for orders and their line items.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository instantiates an order repository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = "id, user_id, restaurant_id, total, delivery_fee, status, created_at, updated_at"

// Create inserts the order and its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create order tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const orderQuery = `INSERT INTO orders (id, user_id, restaurant_id, total, delivery_fee, status, created_at, updated_at) VALUES (:id, :user_id, :restaurant_id, :total, :delivery_fee, :status, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, orderQuery, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	const itemQuery = `INSERT INTO order_items (id, order_id, menu_item_id, name, unit_price, quantity) VALUES (:id, :order_id, :menu_item_id, :name, :unit_price, :quantity)`
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
		order.Items[i].OrderID = order.ID
		if _, err = tx.NamedExecContext(ctx, itemQuery, &order.Items[i]); err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order tx: %w", err)
	}
	return nil
}

// FindByID loads an order by identifier.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1 LIMIT 1", orderColumns)
	var order models.Order
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find order by id: %w", err)
	}
	return &order, nil
}

// ItemsByOrder returns the line items of an order.
func (r *OrderRepository) ItemsByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	const query = `SELECT id, order_id, menu_item_id, name, unit_price, quantity FROM order_items WHERE order_id = $1 ORDER BY name ASC`
	var items []models.OrderItem
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("items by order: %w", err)
	}
	return items, nil
}

// ListByUser returns orders placed by a user, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE user_id = $1 ORDER BY created_at DESC", orderColumns)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}
	return orders, nil
}

// ListByRestaurants returns orders for a set of restaurants, newest first.
func (r *OrderRepository) ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]models.Order, error) {
	if len(restaurantIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(restaurantIDs))
	args := make([]interface{}, len(restaurantIDs))
	for i, id := range restaurantIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf("SELECT %s FROM orders WHERE restaurant_id IN (%s) ORDER BY created_at DESC", orderColumns, strings.Join(placeholders, ", "))
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders by restaurants: %w", err)
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders ORDER BY created_at DESC", orderColumns)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new lifecycle state.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	const query = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}
