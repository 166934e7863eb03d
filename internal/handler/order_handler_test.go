package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/quickbite-api/internal/middleware"
	"github.com/quickbite/quickbite-api/internal/models"
	"github.com/quickbite/quickbite-api/internal/service"
	"github.com/quickbite/quickbite-api/internal/token"
)

type orderRepoStub struct {
	orders map[string]*models.Order
}

func (s *orderRepoStub) Create(ctx context.Context, order *models.Order) error {
	order.ID = "order-1"
	s.orders[order.ID] = order
	return nil
}

func (s *orderRepoStub) FindByID(ctx context.Context, id string) (*models.Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, sql.ErrNoRows
}

func (s *orderRepoStub) ItemsByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	if o, ok := s.orders[orderID]; ok {
		return o.Items, nil
	}
	return nil, nil
}

func (s *orderRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *orderRepoStub) ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]models.Order, error) {
	return nil, nil
}

func (s *orderRepoStub) ListAll(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *orderRepoStub) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if o, ok := s.orders[id]; ok {
		o.Status = status
	}
	return nil
}

type restaurantLookupStub struct{}

func (restaurantLookupStub) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	return &models.Restaurant{ID: id, IsActive: true}, nil
}

func (restaurantLookupStub) FindMenuItemByID(ctx context.Context, id string) (*models.MenuItem, error) {
	return &models.MenuItem{ID: id, Name: "Pho Bo", Price: 9.5, IsAvailable: true}, nil
}

func (restaurantLookupStub) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return nil, nil
}

func newOrderTestRouter(t *testing.T) (*gin.Engine, *orderRepoStub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &orderRepoStub{orders: map[string]*models.Order{}}
	svc := service.NewOrderService(repo, restaurantLookupStub{}, nil, nil)
	h := NewOrderHandler(svc)

	router := gin.New()
	authed := router.Group("", func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(middleware.ContextUserKey, &token.AccessClaims{UserID: uid, Role: models.UserRole(c.GetHeader("X-Test-Role"))})
		}
		c.Next()
	})
	authed.POST("/orders", h.Create)
	authed.GET("/orders", h.List)
	authed.GET("/orders/:id", h.Get)
	return router, repo
}

func TestOrderHandlerCreateRequiresClaims(t *testing.T) {
	router, _ := newOrderTestRouter(t)

	body, _ := json.Marshal(service.CreateOrderRequest{RestaurantID: "rest-1"})
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandlerCreateAndGet(t *testing.T) {
	router, _ := newOrderTestRouter(t)

	body, _ := json.Marshal(service.CreateOrderRequest{
		RestaurantID: "rest-1",
		DeliveryFee:  2,
		Items:        []service.OrderItemRequest{{MenuItemID: "item-1", Quantity: 2}},
	})
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", "user-1")
	req.Header.Set("X-Test-Role", string(models.RoleCustomer))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/orders/order-1", nil)
	req.Header.Set("X-Test-User", "user-1")
	req.Header.Set("X-Test-Role", string(models.RoleCustomer))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pho Bo")

	// Another customer cannot read it.
	req, _ = http.NewRequest(http.MethodGet, "/orders/order-1", nil)
	req.Header.Set("X-Test-User", "user-2")
	req.Header.Set("X-Test-Role", string(models.RoleCustomer))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
