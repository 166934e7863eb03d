package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quickbite/quickbite-api/internal/models"
)

// GlobalCategoryRepository handles persistence for platform-wide cuisine tags.
type GlobalCategoryRepository struct {
	db *sqlx.DB
}

// NewGlobalCategoryRepository instantiates a global category repository.
func NewGlobalCategoryRepository(db *sqlx.DB) *GlobalCategoryRepository {
	return &GlobalCategoryRepository{db: db}
}

// link_count is derived from the restaurant link table on every read.
const globalCategorySelect = `SELECT gc.id, gc.name, gc.slug, gc.emoji, gc.sort_order, gc.is_active, gc.created_at, gc.updated_at,
	(SELECT COUNT(*) FROM restaurant_global_categories l WHERE l.global_category_id = gc.id) AS link_count
	FROM global_categories gc`

// List returns global categories ordered by sort_order then name.
func (r *GlobalCategoryRepository) List(ctx context.Context, onlyActive bool) ([]models.GlobalCategory, error) {
	query := globalCategorySelect
	var args []interface{}
	if onlyActive {
		query += " WHERE gc.is_active = $1"
		args = append(args, true)
	}
	query += " ORDER BY gc.sort_order ASC, gc.name ASC"

	var categories []models.GlobalCategory
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("list global categories: %w", err)
	}
	return categories, nil
}

// FindByID loads a global category by identifier.
func (r *GlobalCategoryRepository) FindByID(ctx context.Context, id string) (*models.GlobalCategory, error) {
	query := globalCategorySelect + " WHERE gc.id = $1 LIMIT 1"
	var category models.GlobalCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find global category by id: %w", err)
	}
	return &category, nil
}

// FindBySlug loads an active global category by slug.
func (r *GlobalCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.GlobalCategory, error) {
	query := globalCategorySelect + " WHERE gc.slug = $1 AND gc.is_active = TRUE LIMIT 1"
	var category models.GlobalCategory
	if err := r.db.GetContext(ctx, &category, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find global category by slug: %w", err)
	}
	return &category, nil
}

// SlugExists checks slug uniqueness, optionally excluding one record.
func (r *GlobalCategoryRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	base := "SELECT 1 FROM global_categories WHERE slug = $1"
	args := []interface{}{slug}
	if excludeID != "" {
		base += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check slug uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a new global category.
func (r *GlobalCategoryRepository) Create(ctx context.Context, category *models.GlobalCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = now

	const query = `INSERT INTO global_categories (id, name, slug, emoji, sort_order, is_active, created_at, updated_at) VALUES (:id, :name, :slug, :emoji, :sort_order, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create global category: %w", err)
	}
	return nil
}

// Update modifies a global category.
func (r *GlobalCategoryRepository) Update(ctx context.Context, category *models.GlobalCategory) error {
	category.UpdatedAt = time.Now().UTC()
	const query = `UPDATE global_categories SET name = :name, slug = :slug, emoji = :emoji, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("update global category: %w", err)
	}
	return nil
}

// Delete removes a global category permanently.
func (r *GlobalCategoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM global_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete global category: %w", err)
	}
	return nil
}
