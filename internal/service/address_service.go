package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quickbite/quickbite-api/internal/models"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
)

type addressRepository interface {
	Create(ctx context.Context, address *models.UserAddress) error
	ListByUser(ctx context.Context, userID string) ([]models.UserAddress, error)
	FindByIDAndUser(ctx context.Context, id, userID string) (*models.UserAddress, error)
	Update(ctx context.Context, address *models.UserAddress) error
	Delete(ctx context.Context, id, userID string) error
}

// SaveAddressRequest holds payload for creating or updating an address.
type SaveAddressRequest struct {
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	IsDefault bool    `json:"is_default"`
}

// AddressService handles saved delivery addresses. Every operation is scoped
// to the authenticated user; setting a default demotes the previous one.
type AddressService struct {
	repo      addressRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAddressService constructs the address service.
func NewAddressService(repo addressRepository, validate *validator.Validate, logger *zap.Logger) *AddressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressService{repo: repo, validator: validate, logger: logger}
}

// List returns the user's addresses, default first.
func (s *AddressService) List(ctx context.Context, userID string) ([]models.UserAddress, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list addresses")
	}
	return addresses, nil
}

// Create saves a new address for the user.
func (s *AddressService) Create(ctx context.Context, userID string, req SaveAddressRequest) (*models.UserAddress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid address payload")
	}

	address := &models.UserAddress{
		UserID:    userID,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsDefault: req.IsDefault,
	}
	if err := s.repo.Create(ctx, address); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create address")
	}
	return address, nil
}

// Update modifies an address owned by the user.
func (s *AddressService) Update(ctx context.Context, id, userID string, req SaveAddressRequest) (*models.UserAddress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid address payload")
	}

	address, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "address not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load address")
	}

	address.Address = req.Address
	address.Latitude = req.Latitude
	address.Longitude = req.Longitude
	address.IsDefault = req.IsDefault

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update address")
	}
	return address, nil
}

// Delete removes an address owned by the user.
func (s *AddressService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.repo.FindByIDAndUser(ctx, id, userID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "address not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load address")
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete address")
	}
	return nil
}
