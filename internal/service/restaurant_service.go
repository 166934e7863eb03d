package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quickbite/quickbite-api/internal/models"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
)

const restaurantCachePrefix = "restaurants:list"

type restaurantRepository interface {
	List(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, int, error)
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
	Create(ctx context.Context, restaurant *models.Restaurant) error
	Update(ctx context.Context, restaurant *models.Restaurant) error
	IncrementViewCount(ctx context.Context, id string) error
	MenuByRestaurant(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
}

type restaurantCategoryRepository interface {
	ByRestaurant(ctx context.Context, restaurantID string) ([]models.Category, error)
}

// CreateRestaurantRequest holds payload for creating restaurants.
type CreateRestaurantRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Latitude    float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64  `json:"longitude" validate:"min=-180,max=180"`
	OwnerID     *string  `json:"owner_id"`
}

// UpdateRestaurantRequest holds payload for updating restaurants.
type UpdateRestaurantRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
	Rating      float64 `json:"rating" validate:"min=0,max=5"`
	IsActive    bool    `json:"is_active"`
}

// CreateMenuItemRequest holds payload for adding a dish to a category.
type CreateMenuItemRequest struct {
	CategoryID  string  `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    *string `json:"image_url"`
}

type restaurantListPayload struct {
	Restaurants []models.Restaurant `json:"restaurants"`
	Pagination  models.Pagination   `json:"pagination"`
}

// RestaurantService handles storefront listing and detail use-cases. Listings
// are served from cache when enabled; writes invalidate the listing keys.
type RestaurantService struct {
	repo       restaurantRepository
	categories restaurantCategoryRepository
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewRestaurantService constructs the restaurant service.
func NewRestaurantService(repo restaurantRepository, categories restaurantCategoryRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *RestaurantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RestaurantService{repo: repo, categories: categories, cache: cache, validator: validate, logger: logger}
}

func listCacheKey(filter models.RestaurantFilter) string {
	active := "any"
	if filter.IsActive != nil {
		active = fmt.Sprintf("%t", *filter.IsActive)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%d:%d:%s:%s", restaurantCachePrefix, filter.Search, filter.CategoryID, active, filter.Page, filter.PageSize, filter.SortBy, filter.SortOrder)
}

// List returns restaurants and pagination metadata.
func (s *RestaurantService) List(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, *models.Pagination, error) {
	key := listCacheKey(filter)
	var cached restaurantListPayload
	if s.cache.Get(ctx, key, &cached) {
		return cached.Restaurants, &cached.Pagination, nil
	}

	restaurants, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list restaurants")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 50 {
		size = 20
	}
	pagination := models.Pagination{Page: page, PageSize: size, TotalCount: total}

	s.cache.Set(ctx, key, restaurantListPayload{Restaurants: restaurants, Pagination: pagination}, 0)
	return restaurants, &pagination, nil
}

// Get loads a restaurant with its menu and categories. Each successful view
// bumps the restaurant's view counter.
func (s *RestaurantService) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "restaurant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load restaurant")
	}

	if err := s.repo.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("failed to increment view count", zap.String("restaurant_id", id), zap.Error(err))
	} else {
		restaurant.ViewCount++
	}

	menu, err := s.repo.MenuByRestaurant(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load menu")
	}
	restaurant.Menu = menu

	if s.categories != nil {
		categories, err := s.categories.ByRestaurant(ctx, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load categories")
		}
		restaurant.Categories = categories
	}

	return restaurant, nil
}

// Create registers a new restaurant.
func (s *RestaurantService) Create(ctx context.Context, req CreateRestaurantRequest) (*models.Restaurant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid restaurant payload")
	}

	restaurant := &models.Restaurant{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, restaurant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create restaurant")
	}

	s.cache.Invalidate(ctx, restaurantCachePrefix+":*")
	return restaurant, nil
}

// Update modifies an existing restaurant.
func (s *RestaurantService) Update(ctx context.Context, id string, req UpdateRestaurantRequest) (*models.Restaurant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid restaurant payload")
	}

	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "restaurant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load restaurant")
	}

	restaurant.Name = req.Name
	restaurant.Description = req.Description
	restaurant.Image = req.Image
	restaurant.Latitude = req.Latitude
	restaurant.Longitude = req.Longitude
	restaurant.Rating = req.Rating
	restaurant.IsActive = req.IsActive

	if err := s.repo.Update(ctx, restaurant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update restaurant")
	}

	s.cache.Invalidate(ctx, restaurantCachePrefix+":*")
	return restaurant, nil
}

// AddMenuItem creates a dish under one of the restaurant's categories.
func (s *RestaurantService) AddMenuItem(ctx context.Context, restaurantID string, req CreateMenuItemRequest) (*models.MenuItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid menu item payload")
	}

	if _, err := s.repo.FindByID(ctx, restaurantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "restaurant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load restaurant")
	}

	if s.categories != nil {
		categories, err := s.categories.ByRestaurant(ctx, restaurantID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load categories")
		}
		found := false
		for _, c := range categories {
			if c.ID == req.CategoryID {
				found = true
				break
			}
		}
		if !found {
			return nil, appErrors.Clone(appErrors.ErrValidation, "category does not belong to restaurant")
		}
	}

	item := &models.MenuItem{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
	}
	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create menu item")
	}
	return item, nil
}

// Menu returns the full menu for a restaurant.
func (s *RestaurantService) Menu(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	if _, err := s.repo.FindByID(ctx, restaurantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "restaurant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load restaurant")
	}
	menu, err := s.repo.MenuByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load menu")
	}
	return menu, nil
}
