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

type fakeRestaurantRepo struct {
	list               func(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, int, error)
	findByID           func(ctx context.Context, id string) (*models.Restaurant, error)
	create             func(ctx context.Context, restaurant *models.Restaurant) error
	update             func(ctx context.Context, restaurant *models.Restaurant) error
	incrementViewCount func(ctx context.Context, id string) error
	menuByRestaurant   func(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	createMenuItem     func(ctx context.Context, item *models.MenuItem) error
}

func (f *fakeRestaurantRepo) List(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, int, error) {
	return f.list(ctx, filter)
}

func (f *fakeRestaurantRepo) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	return f.findByID(ctx, id)
}

func (f *fakeRestaurantRepo) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return f.create(ctx, restaurant)
}

func (f *fakeRestaurantRepo) Update(ctx context.Context, restaurant *models.Restaurant) error {
	return f.update(ctx, restaurant)
}

func (f *fakeRestaurantRepo) IncrementViewCount(ctx context.Context, id string) error {
	return f.incrementViewCount(ctx, id)
}

func (f *fakeRestaurantRepo) MenuByRestaurant(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	return f.menuByRestaurant(ctx, restaurantID)
}

func (f *fakeRestaurantRepo) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return f.createMenuItem(ctx, item)
}

type fakeCategoryLookup struct {
	byRestaurant func(ctx context.Context, restaurantID string) ([]models.Category, error)
}

func (f *fakeCategoryLookup) ByRestaurant(ctx context.Context, restaurantID string) ([]models.Category, error) {
	return f.byRestaurant(ctx, restaurantID)
}

func TestRestaurantServiceGetAttachesMenuAndBumpsViews(t *testing.T) {
	bumped := false
	repo := &fakeRestaurantRepo{
		findByID: func(ctx context.Context, id string) (*models.Restaurant, error) {
			return &models.Restaurant{ID: id, Name: "Pho Corner", ViewCount: 4}, nil
		},
		incrementViewCount: func(ctx context.Context, id string) error {
			bumped = true
			return nil
		},
		menuByRestaurant: func(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
			return []models.MenuItem{{ID: "item-1", Name: "Pho Bo"}}, nil
		},
	}
	categories := &fakeCategoryLookup{
		byRestaurant: func(ctx context.Context, restaurantID string) ([]models.Category, error) {
			return []models.Category{{ID: "cat-1", Name: "Noodles"}}, nil
		},
	}
	svc := NewRestaurantService(repo, categories, nil, nil, nil)

	restaurant, err := svc.Get(context.Background(), "rest-1")
	require.NoError(t, err)
	assert.True(t, bumped)
	assert.Equal(t, 5, restaurant.ViewCount)
	require.Len(t, restaurant.Menu, 1)
	require.Len(t, restaurant.Categories, 1)
}

func TestRestaurantServiceGetNotFound(t *testing.T) {
	repo := &fakeRestaurantRepo{
		findByID: func(ctx context.Context, id string) (*models.Restaurant, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewRestaurantService(repo, nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRestaurantServiceListPagination(t *testing.T) {
	repo := &fakeRestaurantRepo{
		list: func(ctx context.Context, filter models.RestaurantFilter) ([]models.Restaurant, int, error) {
			return []models.Restaurant{{ID: "rest-1"}}, 42, nil
		},
	}
	svc := NewRestaurantService(repo, nil, nil, nil, nil)

	restaurants, pagination, err := svc.List(context.Background(), models.RestaurantFilter{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 10, pagination.PageSize)
	assert.Equal(t, 42, pagination.TotalCount)
}

func TestRestaurantServiceAddMenuItemValidatesCategory(t *testing.T) {
	repo := &fakeRestaurantRepo{
		findByID: func(ctx context.Context, id string) (*models.Restaurant, error) {
			return &models.Restaurant{ID: id}, nil
		},
		createMenuItem: func(ctx context.Context, item *models.MenuItem) error {
			item.ID = "item-1"
			return nil
		},
	}
	categories := &fakeCategoryLookup{
		byRestaurant: func(ctx context.Context, restaurantID string) ([]models.Category, error) {
			return []models.Category{{ID: "cat-1"}}, nil
		},
	}
	svc := NewRestaurantService(repo, categories, nil, nil, nil)
	ctx := context.Background()

	item, err := svc.AddMenuItem(ctx, "rest-1", CreateMenuItemRequest{CategoryID: "cat-1", Name: "Pho Bo", Price: 9.5})
	require.NoError(t, err)
	assert.True(t, item.IsAvailable)

	_, err = svc.AddMenuItem(ctx, "rest-1", CreateMenuItemRequest{CategoryID: "cat-other", Name: "Pho Bo", Price: 9.5})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
