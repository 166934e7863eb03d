package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/quickbite/quickbite-api/internal/models"
	"github.com/quickbite/quickbite-api/internal/token"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByIDAndRefreshToken(ctx context.Context, id, refreshToken string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateRefreshToken(ctx context.Context, id, refreshToken string) error
	ClearRefreshToken(ctx context.Context, id, refreshToken string) error
}

// AuthService orchestrates register, login, refresh and logout against the
// user store and the token manager. Each user holds at most one active
// refresh token; issuing a new one overwrites the previous slot.
type AuthService struct {
	repo      authUserRepository
	tokens    *token.Manager
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, tokens *token.Manager, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{repo: repo, tokens: tokens, validator: validate, logger: logger}
}

// Register creates an account and signs the user in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid register payload")
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "user already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	return s.issuePair(ctx, user)
}

// Login authenticates by email and password. Unknown email and wrong password
// yield the same error so account existence cannot be probed.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")
	}

	return s.issuePair(ctx, user)
}

// Refresh rotates the token pair. The presented token must verify AND match
// the value currently stored on the user record; a superseded token fails
// even while its signature and expiry are still technically valid.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshRequest) (*models.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload")
	}

	claims, err := s.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByIDAndRefreshToken(ctx, claims.UserID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid or expired refresh token")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	return s.issuePair(ctx, user)
}

// Logout clears the stored refresh token. Invalid or missing tokens are
// treated as already logged out; the caller always receives the same message.
func (s *AuthService) Logout(ctx context.Context, req models.LogoutRequest) *models.MessageResponse {
	resp := &models.MessageResponse{Message: "Logged out"}

	if req.RefreshToken == "" {
		return resp
	}

	claims, err := s.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return resp
	}

	if err := s.repo.ClearRefreshToken(ctx, claims.UserID, req.RefreshToken); err != nil {
		s.logger.Warn("failed to clear refresh token", zap.Error(err))
	}
	return resp
}

// issuePair mints a fresh access/refresh pair and overwrites the stored
// refresh token, invalidating any prior session.
func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	if err := s.repo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist refresh token")
	}
	user.RefreshToken = &refreshToken

	return &models.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessExpiry().Seconds()),
	}, nil
}
