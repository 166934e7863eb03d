package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quickbite/quickbite-api/internal/models"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
	"github.com/quickbite/quickbite-api/pkg/slug"
)

type globalCategoryRepository interface {
	List(ctx context.Context, onlyActive bool) ([]models.GlobalCategory, error)
	FindByID(ctx context.Context, id string) (*models.GlobalCategory, error)
	FindBySlug(ctx context.Context, slug string) (*models.GlobalCategory, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, category *models.GlobalCategory) error
	Update(ctx context.Context, category *models.GlobalCategory) error
	Delete(ctx context.Context, id string) error
}

// CreateGlobalCategoryRequest holds payload for creating a cuisine tag. The
// slug is derived from the name when not given explicitly.
type CreateGlobalCategoryRequest struct {
	Name      string `json:"name" validate:"required"`
	Slug      string `json:"slug"`
	Emoji     string `json:"emoji"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

// UpdateGlobalCategoryRequest holds payload for updating a cuisine tag.
type UpdateGlobalCategoryRequest struct {
	Name      string `json:"name" validate:"required"`
	Slug      string `json:"slug"`
	Emoji     string `json:"emoji"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
	IsActive  bool   `json:"is_active"`
}

// GlobalCategoryService handles platform-wide cuisine tags.
type GlobalCategoryService struct {
	repo      globalCategoryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGlobalCategoryService constructs the global category service.
func NewGlobalCategoryService(repo globalCategoryRepository, validate *validator.Validate, logger *zap.Logger) *GlobalCategoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GlobalCategoryService{repo: repo, validator: validate, logger: logger}
}

// List returns cuisine tags; non-admin callers see active ones only.
func (s *GlobalCategoryService) List(ctx context.Context, onlyActive bool) ([]models.GlobalCategory, error) {
	categories, err := s.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list global categories")
	}
	return categories, nil
}

// Get loads a cuisine tag by slug, falling back to an id lookup so both
// URL forms resolve.
func (s *GlobalCategoryService) Get(ctx context.Context, idOrSlug string) (*models.GlobalCategory, error) {
	category, err := s.repo.FindBySlug(ctx, idOrSlug)
	if err == nil {
		return category, nil
	}
	if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load global category")
	}

	category, err = s.repo.FindByID(ctx, idOrSlug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "global category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load global category")
	}
	return category, nil
}

// uniqueSlug appends a numeric suffix until the candidate is free. The
// first collision yields "<base>-1", the next "<base>-2", and so on.
func (s *GlobalCategoryService) uniqueSlug(ctx context.Context, base, excludeID string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Create adds a cuisine tag, deriving a unique slug from the name.
func (s *GlobalCategoryService) Create(ctx context.Context, req CreateGlobalCategoryRequest) (*models.GlobalCategory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid global category payload")
	}

	base := req.Slug
	if base == "" {
		base = slug.FromName(req.Name)
	} else {
		base = slug.FromName(base)
	}
	unique, err := s.uniqueSlug(ctx, base, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive slug")
	}

	emoji := req.Emoji
	if emoji == "" {
		emoji = defaultCategoryEmoji
	}

	category := &models.GlobalCategory{
		Name:      req.Name,
		Slug:      unique,
		Emoji:     emoji,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create global category")
	}
	return category, nil
}

// Update modifies a cuisine tag, re-deriving the slug when the name or slug
// input changed.
func (s *GlobalCategoryService) Update(ctx context.Context, id string, req UpdateGlobalCategoryRequest) (*models.GlobalCategory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid global category payload")
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "global category not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load global category")
	}

	base := req.Slug
	if base == "" {
		base = slug.FromName(req.Name)
	} else {
		base = slug.FromName(base)
	}
	if base != category.Slug {
		unique, err := s.uniqueSlug(ctx, base, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive slug")
		}
		category.Slug = unique
	}

	category.Name = req.Name
	category.Emoji = req.Emoji
	if category.Emoji == "" {
		category.Emoji = defaultCategoryEmoji
	}
	category.SortOrder = req.SortOrder
	category.IsActive = req.IsActive

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update global category")
	}
	return category, nil
}

// Delete removes a cuisine tag.
func (s *GlobalCategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "global category not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load global category")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete global category")
	}
	return nil
}
