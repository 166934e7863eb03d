package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quickbite/quickbite-api/internal/models"
)

// CategoryRepository handles persistence for per-restaurant menu categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository instantiates a category repository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = "id, restaurant_id, name, emoji, sort_order, is_active, created_at, updated_at"

// List returns categories, optionally scoped to one restaurant, ordered by
// sort_order.
func (r *CategoryRepository) List(ctx context.Context, restaurantID string, onlyActive bool) ([]models.Category, error) {
	base := fmt.Sprintf("SELECT %s FROM categories WHERE 1=1", categoryColumns)
	var args []interface{}

	if restaurantID != "" {
		base += fmt.Sprintf(" AND restaurant_id = $%d", len(args)+1)
		args = append(args, restaurantID)
	}
	if onlyActive {
		base += fmt.Sprintf(" AND is_active = $%d", len(args)+1)
		args = append(args, true)
	}
	base += " ORDER BY sort_order ASC"

	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, base, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create inserts a new menu category.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now

	const query = `INSERT INTO categories (id, restaurant_id, name, emoji, sort_order, is_active, created_at, updated_at) VALUES (:id, :restaurant_id, :name, :emoji, :sort_order, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// ByRestaurant returns all categories for a restaurant ordered by sort_order.
func (r *CategoryRepository) ByRestaurant(ctx context.Context, restaurantID string) ([]models.Category, error) {
	query := fmt.Sprintf("SELECT %s FROM categories WHERE restaurant_id = $1 ORDER BY sort_order ASC", categoryColumns)
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query, restaurantID); err != nil {
		return nil, fmt.Errorf("categories by restaurant: %w", err)
	}
	return categories, nil
}
