package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/quickbite/quickbite-api/internal/models"
	"github.com/quickbite/quickbite-api/internal/service"
	"github.com/quickbite/quickbite-api/internal/token"
	"github.com/quickbite/quickbite-api/pkg/response"
)

type userRepoStub struct {
	users  map[string]*models.User
	stored map[string]string
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: map[string]*models.User{}, stored: map[string]string{}}
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByIDAndRefreshToken(ctx context.Context, id, refreshToken string) (*models.User, error) {
	if u, ok := s.users[id]; ok && s.stored[id] == refreshToken {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	s.users[user.ID] = user
	return nil
}

func (s *userRepoStub) UpdateRefreshToken(ctx context.Context, id, refreshToken string) error {
	s.stored[id] = refreshToken
	return nil
}

func (s *userRepoStub) ClearRefreshToken(ctx context.Context, id, refreshToken string) error {
	if s.stored[id] == refreshToken {
		delete(s.stored, id)
	}
	return nil
}

func (s *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	return nil, 0, nil
}

func newAuthTestRouter(t *testing.T) (*gin.Engine, *userRepoStub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newUserRepoStub()
	tokens := token.NewManager("test_secret", 15*time.Minute, 168*time.Hour)
	authSvc := service.NewAuthService(repo, tokens, nil, nil)
	userSvc := service.NewUserService(repo, nil)
	h := NewAuthHandler(authSvc, userSvc)

	router := gin.New()
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.Refresh)
	router.POST("/auth/logout", h.Logout)
	return router, repo
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestAuthHandlerRegisterLoginFlow(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(t, router, "/auth/register", models.RegisterRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Name:     "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/auth/login", models.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
}

func TestAuthHandlerLoginFailuresLookAlike(t *testing.T) {
	router, repo := newAuthTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["user-1"] = &models.User{ID: "user-1", Email: "alice@example.com", PasswordHash: string(hash), Role: models.RoleCustomer}

	wrongPass := postJSON(t, router, "/auth/login", models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	unknownEmail := postJSON(t, router, "/auth/login", models.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

	a := decodeEnvelope(t, wrongPass)
	b := decodeEnvelope(t, unknownEmail)
	require.NotNil(t, a.Error)
	require.NotNil(t, b.Error)
	assert.Equal(t, a.Error.Message, b.Error.Message)
	assert.Equal(t, "Invalid credentials", a.Error.Message)
}

func TestAuthHandlerRefreshRejectsSupersededToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(t, router, "/auth/register", models.RegisterRequest{
		Email:    "bob@example.com",
		Password: "s3cret-pass",
		Name:     "Bob",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	first := decodeEnvelope(t, w).Data.(map[string]interface{})["refresh_token"].(string)

	// Logging in again rotates the stored slot.
	w = postJSON(t, router, "/auth/login", models.LoginRequest{Email: "bob@example.com", Password: "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeEnvelope(t, w).Data.(map[string]interface{})["refresh_token"].(string)

	if first != second {
		w = postJSON(t, router, "/auth/refresh", models.RefreshRequest{RefreshToken: first})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w = postJSON(t, router, "/auth/refresh", models.RefreshRequest{RefreshToken: second})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandlerLogoutAlwaysGeneric(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	for _, payload := range []interface{}{
		models.LogoutRequest{RefreshToken: "garbage"},
		models.LogoutRequest{},
		"not even json",
	} {
		w := postJSON(t, router, "/auth/logout", payload)
		require.Equal(t, http.StatusOK, w.Code)
		envelope := decodeEnvelope(t, w)
		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Logged out", data["message"])
	}
}
