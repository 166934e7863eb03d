package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/quickbite-api/internal/models"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
)

type fakeCategoryRepo struct {
	list   func(ctx context.Context, restaurantID string, onlyActive bool) ([]models.Category, error)
	create func(ctx context.Context, category *models.Category) error
}

func (f *fakeCategoryRepo) List(ctx context.Context, restaurantID string, onlyActive bool) ([]models.Category, error) {
	return f.list(ctx, restaurantID, onlyActive)
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	return f.create(ctx, category)
}

type fakeCategoryRestaurantRepo struct {
	findByID func(ctx context.Context, id string) (*models.Restaurant, error)
}

func (f *fakeCategoryRestaurantRepo) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	return f.findByID(ctx, id)
}

func TestCategoryServiceCreateDefaultsEmoji(t *testing.T) {
	restaurants := &fakeCategoryRestaurantRepo{
		findByID: func(ctx context.Context, id string) (*models.Restaurant, error) {
			return &models.Restaurant{ID: id}, nil
		},
	}
	repo := &fakeCategoryRepo{
		create: func(ctx context.Context, category *models.Category) error {
			category.ID = "cat-1"
			return nil
		},
	}
	svc := NewCategoryService(repo, restaurants, nil, nil)

	category, err := svc.Create(context.Background(), CreateCategoryRequest{
		RestaurantID: "rest-1",
		Name:         "Noodles",
	})
	require.NoError(t, err)
	assert.Equal(t, "📦", category.Emoji)
	assert.True(t, category.IsActive)
}

func TestCategoryServiceCreateKeepsExplicitEmoji(t *testing.T) {
	restaurants := &fakeCategoryRestaurantRepo{
		findByID: func(ctx context.Context, id string) (*models.Restaurant, error) {
			return &models.Restaurant{ID: id}, nil
		},
	}
	repo := &fakeCategoryRepo{
		create: func(ctx context.Context, category *models.Category) error {
			return nil
		},
	}
	svc := NewCategoryService(repo, restaurants, nil, nil)

	category, err := svc.Create(context.Background(), CreateCategoryRequest{
		RestaurantID: "rest-1",
		Name:         "Noodles",
		Emoji:        "🍜",
	})
	require.NoError(t, err)
	assert.Equal(t, "🍜", category.Emoji)
}

func TestCategoryServiceCreateUnknownRestaurant(t *testing.T) {
	restaurants := &fakeCategoryRestaurantRepo{
		findByID: func(ctx context.Context, id string) (*models.Restaurant, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewCategoryService(&fakeCategoryRepo{}, restaurants, nil, nil)

	_, err := svc.Create(context.Background(), CreateCategoryRequest{
		RestaurantID: "rest-404",
		Name:         "Noodles",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
