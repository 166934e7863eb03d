package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quickbite/quickbite-api/internal/models"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
)

// defaultCategoryEmoji marks categories created without an explicit emoji.
const defaultCategoryEmoji = "📦"

type categoryRepository interface {
	List(ctx context.Context, restaurantID string, onlyActive bool) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}

type categoryRestaurantRepository interface {
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
}

// CreateCategoryRequest holds payload for creating a menu category.
type CreateCategoryRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Emoji        string `json:"emoji"`
	SortOrder    int    `json:"sort_order" validate:"min=0"`
}

// CategoryService handles per-restaurant menu category use-cases.
type CategoryService struct {
	repo        categoryRepository
	restaurants categoryRestaurantRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCategoryService constructs the category service.
func NewCategoryService(repo categoryRepository, restaurants categoryRestaurantRepository, validate *validator.Validate, logger *zap.Logger) *CategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, restaurants: restaurants, validator: validate, logger: logger}
}

// List returns categories, optionally scoped to one restaurant.
func (s *CategoryService) List(ctx context.Context, restaurantID string, onlyActive bool) ([]models.Category, error) {
	categories, err := s.repo.List(ctx, restaurantID, onlyActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// Create adds a menu category to an existing restaurant.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}

	if _, err := s.restaurants.FindByID(ctx, req.RestaurantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "restaurant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load restaurant")
	}

	emoji := req.Emoji
	if emoji == "" {
		emoji = defaultCategoryEmoji
	}

	category := &models.Category{
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		Emoji:        emoji,
		SortOrder:    req.SortOrder,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	return category, nil
}
