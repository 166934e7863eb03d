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

type fakeGlobalCategoryRepo struct {
	list       func(ctx context.Context, onlyActive bool) ([]models.GlobalCategory, error)
	findByID   func(ctx context.Context, id string) (*models.GlobalCategory, error)
	findBySlug func(ctx context.Context, slug string) (*models.GlobalCategory, error)
	slugExists func(ctx context.Context, slug, excludeID string) (bool, error)
	create     func(ctx context.Context, category *models.GlobalCategory) error
	update     func(ctx context.Context, category *models.GlobalCategory) error
	delete     func(ctx context.Context, id string) error
}

func (f *fakeGlobalCategoryRepo) List(ctx context.Context, onlyActive bool) ([]models.GlobalCategory, error) {
	return f.list(ctx, onlyActive)
}

func (f *fakeGlobalCategoryRepo) FindByID(ctx context.Context, id string) (*models.GlobalCategory, error) {
	return f.findByID(ctx, id)
}

func (f *fakeGlobalCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.GlobalCategory, error) {
	return f.findBySlug(ctx, slug)
}

func (f *fakeGlobalCategoryRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return f.slugExists(ctx, slug, excludeID)
}

func (f *fakeGlobalCategoryRepo) Create(ctx context.Context, category *models.GlobalCategory) error {
	return f.create(ctx, category)
}

func (f *fakeGlobalCategoryRepo) Update(ctx context.Context, category *models.GlobalCategory) error {
	return f.update(ctx, category)
}

func (f *fakeGlobalCategoryRepo) Delete(ctx context.Context, id string) error {
	return f.delete(ctx, id)
}

func TestGlobalCategoryServiceCreateDerivesSlug(t *testing.T) {
	repo := &fakeGlobalCategoryRepo{
		slugExists: func(ctx context.Context, slug, excludeID string) (bool, error) {
			return false, nil
		},
		create: func(ctx context.Context, category *models.GlobalCategory) error {
			category.ID = "gc-1"
			return nil
		},
	}
	svc := NewGlobalCategoryService(repo, nil, nil)

	category, err := svc.Create(context.Background(), CreateGlobalCategoryRequest{Name: "Fast Food"})
	require.NoError(t, err)
	assert.Equal(t, "fast-food", category.Slug)
	assert.Equal(t, "📦", category.Emoji)
	assert.True(t, category.IsActive)
}

func TestGlobalCategoryServiceCreateSuffixesTakenSlug(t *testing.T) {
	cases := []struct {
		name  string
		taken map[string]bool
		want  string
	}{
		{"first collision", map[string]bool{"sushi": true}, "sushi-1"},
		{"chained collisions", map[string]bool{"sushi": true, "sushi-1": true}, "sushi-2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeGlobalCategoryRepo{
				slugExists: func(ctx context.Context, slug, excludeID string) (bool, error) {
					return tc.taken[slug], nil
				},
				create: func(ctx context.Context, category *models.GlobalCategory) error {
					return nil
				},
			}
			svc := NewGlobalCategoryService(repo, nil, nil)

			category, err := svc.Create(context.Background(), CreateGlobalCategoryRequest{Name: "Sushi"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, category.Slug)
		})
	}
}

func TestGlobalCategoryServiceUpdateKeepsSlugWhenUnchanged(t *testing.T) {
	checked := false
	repo := &fakeGlobalCategoryRepo{
		findByID: func(ctx context.Context, id string) (*models.GlobalCategory, error) {
			return &models.GlobalCategory{ID: id, Name: "Sushi", Slug: "sushi", IsActive: true}, nil
		},
		slugExists: func(ctx context.Context, slug, excludeID string) (bool, error) {
			checked = true
			return false, nil
		},
		update: func(ctx context.Context, category *models.GlobalCategory) error {
			return nil
		},
	}
	svc := NewGlobalCategoryService(repo, nil, nil)

	category, err := svc.Update(context.Background(), "gc-1", UpdateGlobalCategoryRequest{Name: "Sushi", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "sushi", category.Slug)
	assert.False(t, checked)
}

func TestGlobalCategoryServiceUpdateDefaultsClearedEmoji(t *testing.T) {
	repo := &fakeGlobalCategoryRepo{
		findByID: func(ctx context.Context, id string) (*models.GlobalCategory, error) {
			return &models.GlobalCategory{ID: id, Name: "Sushi", Slug: "sushi", Emoji: "🍣", IsActive: true}, nil
		},
		update: func(ctx context.Context, category *models.GlobalCategory) error {
			return nil
		},
	}
	svc := NewGlobalCategoryService(repo, nil, nil)

	category, err := svc.Update(context.Background(), "gc-1", UpdateGlobalCategoryRequest{Name: "Sushi", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "📦", category.Emoji)
}

func TestGlobalCategoryServiceGetFallsBackToID(t *testing.T) {
	repo := &fakeGlobalCategoryRepo{
		findBySlug: func(ctx context.Context, slug string) (*models.GlobalCategory, error) {
			return nil, sql.ErrNoRows
		},
		findByID: func(ctx context.Context, id string) (*models.GlobalCategory, error) {
			if id == "gc-1" {
				return &models.GlobalCategory{ID: id, Name: "Sushi", Slug: "sushi"}, nil
			}
			return nil, sql.ErrNoRows
		},
	}
	svc := NewGlobalCategoryService(repo, nil, nil)

	category, err := svc.Get(context.Background(), "gc-1")
	require.NoError(t, err)
	assert.Equal(t, "sushi", category.Slug)

	_, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
