package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/quickbite/quickbite-api/internal/models"
	"github.com/quickbite/quickbite-api/internal/token"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
)

type fakeUserRepo struct {
	findByEmail             func(ctx context.Context, email string) (*models.User, error)
	findByID                func(ctx context.Context, id string) (*models.User, error)
	findByIDAndRefreshToken func(ctx context.Context, id, refreshToken string) (*models.User, error)
	create                  func(ctx context.Context, user *models.User) error
	updateRefreshToken      func(ctx context.Context, id, refreshToken string) error
	clearRefreshToken       func(ctx context.Context, id, refreshToken string) error
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.findByEmail(ctx, email)
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return f.findByID(ctx, id)
}

func (f *fakeUserRepo) FindByIDAndRefreshToken(ctx context.Context, id, refreshToken string) (*models.User, error) {
	return f.findByIDAndRefreshToken(ctx, id, refreshToken)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	return f.create(ctx, user)
}

func (f *fakeUserRepo) UpdateRefreshToken(ctx context.Context, id, refreshToken string) error {
	return f.updateRefreshToken(ctx, id, refreshToken)
}

func (f *fakeUserRepo) ClearRefreshToken(ctx context.Context, id, refreshToken string) error {
	return f.clearRefreshToken(ctx, id, refreshToken)
}

func newTestTokens(t *testing.T) *token.Manager {
	t.Helper()
	return token.NewManager("test_secret", 15*time.Minute, 168*time.Hour)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceRegister(t *testing.T) {
	var stored string
	repo := &fakeUserRepo{
		findByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
		create: func(ctx context.Context, user *models.User) error {
			user.ID = "user-1"
			return nil
		},
		updateRefreshToken: func(ctx context.Context, id, refreshToken string) error {
			stored = refreshToken
			return nil
		},
	}

	svc := NewAuthService(repo, newTestTokens(t), nil, nil)
	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, stored, resp.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.ExpiresIn)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email}, nil
		},
	}

	svc := NewAuthService(repo, newTestTokens(t), nil, nil)
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Name:     "Alice",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestAuthServiceRegisterRejectsAdminRole(t *testing.T) {
	svc := NewAuthService(&fakeUserRepo{}, newTestTokens(t), nil, nil)
	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "mallory@example.com",
		Password: "s3cret-pass",
		Name:     "Mallory",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceLogin(t *testing.T) {
	hash := hashPassword(t, "s3cret-pass")
	var stored string
	repo := &fakeUserRepo{
		findByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, PasswordHash: hash, Role: models.RoleCustomer}, nil
		},
		updateRefreshToken: func(ctx context.Context, id, refreshToken string) error {
			stored = refreshToken
			return nil
		},
	}

	svc := NewAuthService(repo, newTestTokens(t), nil, nil)
	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.Equal(t, stored, resp.RefreshToken)
}

func TestAuthServiceLoginIndistinguishableFailures(t *testing.T) {
	hash := hashPassword(t, "right-pass")

	unknownEmail := &fakeUserRepo{
		findByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	wrongPassword := &fakeUserRepo{
		findByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}

	tokens := newTestTokens(t)
	_, errUnknown := NewAuthService(unknownEmail, tokens, nil, nil).Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-pass",
	})
	_, errWrong := NewAuthService(wrongPassword, tokens, nil, nil).Login(context.Background(), models.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-pass",
	})

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	a := appErrors.FromError(errUnknown)
	b := appErrors.FromError(errWrong)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Status, b.Status)
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, "Invalid credentials", a.Message)
}

func TestAuthServiceRefreshRotatesToken(t *testing.T) {
	tokens := newTestTokens(t)
	current, err := tokens.IssueRefreshToken("user-1")
	require.NoError(t, err)

	var stored = current
	repo := &fakeUserRepo{
		findByIDAndRefreshToken: func(ctx context.Context, id, refreshToken string) (*models.User, error) {
			if id == "user-1" && refreshToken == stored {
				return &models.User{ID: "user-1", Role: models.RoleCustomer}, nil
			}
			return nil, sql.ErrNoRows
		},
		updateRefreshToken: func(ctx context.Context, id, refreshToken string) error {
			stored = refreshToken
			return nil
		},
	}

	svc := NewAuthService(repo, tokens, nil, nil)
	resp, err := svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: current})
	require.NoError(t, err)
	assert.Equal(t, stored, resp.RefreshToken)

	// The old token no longer matches the stored slot once rotated.
	if resp.RefreshToken != current {
		_, err = svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: current})
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
	}
}

func TestAuthServiceRefreshRejectsAccessToken(t *testing.T) {
	tokens := newTestTokens(t)
	access, err := tokens.IssueAccessToken("user-1", models.RoleCustomer)
	require.NoError(t, err)

	svc := NewAuthService(&fakeUserRepo{}, tokens, nil, nil)
	_, err = svc.Refresh(context.Background(), models.RefreshRequest{RefreshToken: access})
	require.Error(t, err)
}

func TestAuthServiceLogoutAlwaysSucceeds(t *testing.T) {
	tokens := newTestTokens(t)
	valid, err := tokens.IssueRefreshToken("user-1")
	require.NoError(t, err)

	cleared := false
	repo := &fakeUserRepo{
		clearRefreshToken: func(ctx context.Context, id, refreshToken string) error {
			cleared = true
			assert.Equal(t, "user-1", id)
			assert.Equal(t, valid, refreshToken)
			return nil
		},
	}
	svc := NewAuthService(repo, tokens, nil, nil)

	resp := svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: valid})
	assert.Equal(t, "Logged out", resp.Message)
	assert.True(t, cleared)

	resp = svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: "not-a-jwt"})
	assert.Equal(t, "Logged out", resp.Message)

	resp = svc.Logout(context.Background(), models.LogoutRequest{})
	assert.Equal(t, "Logged out", resp.Message)
}
