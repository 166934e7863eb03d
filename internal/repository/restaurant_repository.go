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

// RestaurantRepository handles persistence for restaurants and menu items.
type RestaurantRepository struct {
	db *sqlx.DB
}

// NewRestaurantRepository instantiates a restaurant repository.
func NewRestaurantRepository(db *sqlx.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

const restaurantColumns = "id, owner_id, name, description, image, latitude, longitude, rating, view_count, is_active, created_at, updated_at"

// List returns restaurants matching provided filters with total count. The
// category filter matches restaurants linked to a global category.
func (r *RestaurantRepository) List(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, int, error) {
	base := "FROM restaurants WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("id IN (SELECT restaurant_id FROM restaurant_global_categories WHERE global_category_id = $%d)", len(args)+1))
		args = append(args, filter.CategoryID)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"created_at": true,
		"rating":     true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", restaurantColumns, base, sortBy, order, size, offset)

	var restaurants []models.Restaurant
	if err := r.db.SelectContext(ctx, &restaurants, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list restaurants: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}

	return restaurants, total, nil
}

// FindByID loads a restaurant by identifier.
func (r *RestaurantRepository) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	query := fmt.Sprintf("SELECT %s FROM restaurants WHERE id = $1 LIMIT 1", restaurantColumns)
	var restaurant models.Restaurant
	if err := r.db.GetContext(ctx, &restaurant, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find restaurant by id: %w", err)
	}
	return &restaurant, nil
}

// Create inserts a new restaurant record.
func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	if restaurant.ID == "" {
		restaurant.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if restaurant.CreatedAt.IsZero() {
		restaurant.CreatedAt = now
	}
	restaurant.UpdatedAt = now

	const query = `INSERT INTO restaurants (id, owner_id, name, description, image, latitude, longitude, rating, view_count, is_active, created_at, updated_at) VALUES (:id, :owner_id, :name, :description, :image, :latitude, :longitude, :rating, :view_count, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, restaurant); err != nil {
		return fmt.Errorf("create restaurant: %w", err)
	}
	return nil
}

// Update modifies mutable fields of a restaurant.
func (r *RestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	restaurant.UpdatedAt = time.Now().UTC()
	const query = `UPDATE restaurants SET name = :name, description = :description, image = :image, latitude = :latitude, longitude = :longitude, rating = :rating, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, restaurant); err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	return nil
}

// IncrementViewCount bumps the detail-page counter.
func (r *RestaurantRepository) IncrementViewCount(ctx context.Context, id string) error {
	const query = `UPDATE restaurants SET view_count = view_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// MenuByRestaurant returns menu items for all categories of a restaurant.
func (r *RestaurantRepository) MenuByRestaurant(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	const query = `SELECT mi.id, mi.category_id, mi.name, mi.description, mi.price, mi.image_url, mi.is_available, mi.created_at, mi.updated_at
		FROM menu_items mi
		JOIN categories c ON c.id = mi.category_id
		WHERE c.restaurant_id = $1
		ORDER BY c.sort_order ASC, mi.name ASC`
	var items []models.MenuItem
	if err := r.db.SelectContext(ctx, &items, query, restaurantID); err != nil {
		return nil, fmt.Errorf("menu by restaurant: %w", err)
	}
	return items, nil
}

// CreateMenuItem inserts a dish under an existing category.
func (r *RestaurantRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	const query = `INSERT INTO menu_items (id, category_id, name, description, price, image_url, is_available, created_at, updated_at) VALUES (:id, :category_id, :name, :description, :price, :image_url, :is_available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

// FindMenuItemByID loads a single menu item.
func (r *RestaurantRepository) FindMenuItemByID(ctx context.Context, id string) (*models.MenuItem, error) {
	const query = `SELECT id, category_id, name, description, price, image_url, is_available, created_at, updated_at FROM menu_items WHERE id = $1 LIMIT 1`
	var item models.MenuItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return &item, nil
}

// IDsByOwner returns restaurant IDs owned by the given user.
func (r *RestaurantRepository) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	const query = `SELECT id FROM restaurants WHERE owner_id = $1`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, ownerID); err != nil {
		return nil, fmt.Errorf("restaurant ids by owner: %w", err)
	}
	return ids, nil
}
