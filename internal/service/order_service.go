package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quickbite/quickbite-api/internal/models"
	appErrors "github.com/quickbite/quickbite-api/pkg/errors"
	"github.com/quickbite/quickbite-api/pkg/export"
)

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	ItemsByOrder(ctx context.Context, orderID string) ([]models.OrderItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListByRestaurants(ctx context.Context, restaurantIDs []string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
}

type orderRestaurantRepository interface {
	FindByID(ctx context.Context, id string) (*models.Restaurant, error)
	FindMenuItemByID(ctx context.Context, id string) (*models.MenuItem, error)
	IDsByOwner(ctx context.Context, ownerID string) ([]string, error)
}

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest holds payload for placing an order. Prices come from the
// menu at order time, never from the client.
type CreateOrderRequest struct {
	RestaurantID string             `json:"restaurant_id" validate:"required"`
	DeliveryFee  float64            `json:"delivery_fee" validate:"min=0"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest moves an order to a new lifecycle state.
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// OrderService handles order placement, role-scoped listing, status moves and
// receipt exports.
type OrderService struct {
	repo        orderRepository
	restaurants orderRestaurantRepository
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewOrderService constructs the order service.
func NewOrderService(repo orderRepository, restaurants orderRestaurantRepository, validate *validator.Validate, logger *zap.Logger) *OrderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:        repo,
		restaurants: restaurants,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		validator:   validate,
		logger:      logger,
	}
}

// Create places an order. The total is computed from current menu prices plus
// the delivery fee; line items capture the name and unit price at order time.
func (s *OrderService) Create(ctx context.Context, userID string, req CreateOrderRequest) (*models.Order, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid order payload")
	}

	if _, err := s.restaurants.FindByID(ctx, req.RestaurantID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "restaurant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load restaurant")
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		menuItem, err := s.restaurants.FindMenuItemByID(ctx, line.MenuItemID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("menu item %s not found", line.MenuItemID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load menu item")
		}
		if !menuItem.IsAvailable {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("menu item %s is unavailable", menuItem.Name))
		}
		total += menuItem.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   line.Quantity,
		})
	}

	order := &models.Order{
		UserID:       userID,
		RestaurantID: req.RestaurantID,
		Total:        total + req.DeliveryFee,
		DeliveryFee:  req.DeliveryFee,
		Status:       models.OrderPending,
		Items:        items,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create order")
	}
	return order, nil
}

// canAccess reports whether the user may read the order. Customers see their
// own orders, owners see orders against their restaurants, admins see all.
func (s *OrderService) canAccess(ctx context.Context, order *models.Order, userID string, role models.UserRole) (bool, error) {
	switch {
	case role == models.RoleAdmin:
		return true, nil
	case order.UserID == userID:
		return true, nil
	case role == models.RoleRestaurantOwner:
		ids, err := s.restaurants.IDsByOwner(ctx, userID)
		if err != nil {
			return false, err
		}
		for _, id := range ids {
			if id == order.RestaurantID {
				return true, nil
			}
		}
	case role == models.RoleDriver:
		return true, nil
	}
	return false, nil
}

// Get loads an order with its items, enforcing access by role.
func (s *OrderService) Get(ctx context.Context, id, userID string, role models.UserRole) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}

	ok, err := s.canAccess(ctx, order, userID, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check order access")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "order belongs to another user")
	}

	items, err := s.repo.ItemsByOrder(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order items")
	}
	order.Items = items
	return order, nil
}

// List returns orders visible to the caller. Customers get their own orders,
// restaurant owners get orders against their restaurants, admins get all.
func (s *OrderService) List(ctx context.Context, userID string, role models.UserRole) ([]models.Order, error) {
	var orders []models.Order
	var err error

	switch role {
	case models.RoleAdmin:
		orders, err = s.repo.ListAll(ctx)
	case models.RoleRestaurantOwner:
		var ids []string
		ids, err = s.restaurants.IDsByOwner(ctx, userID)
		if err == nil {
			orders, err = s.repo.ListByRestaurants(ctx, ids)
		}
	default:
		orders, err = s.repo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list orders")
	}
	return orders, nil
}

// UpdateStatus moves an order through its lifecycle. Owners may only touch
// orders against their own restaurants.
func (s *OrderService) UpdateStatus(ctx context.Context, id, userID string, role models.UserRole, req UpdateOrderStatusRequest) (*models.Order, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown order status")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}

	if role == models.RoleRestaurantOwner {
		ids, err := s.restaurants.IDsByOwner(ctx, userID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check order access")
		}
		owned := false
		for _, rid := range ids {
			if rid == order.RestaurantID {
				owned = true
				break
			}
		}
		if !owned {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "order belongs to another restaurant")
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update order status")
	}
	order.Status = req.Status
	return order, nil
}

func orderDataset(orders []models.Order) export.Dataset {
	rows := make([]map[string]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, map[string]string{
			"Order ID":      o.ID,
			"User ID":       o.UserID,
			"Restaurant ID": o.RestaurantID,
			"Status":        string(o.Status),
			"Total":         fmt.Sprintf("%.2f", o.Total),
			"Created At":    o.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return export.Dataset{
		Headers: []string{"Order ID", "User ID", "Restaurant ID", "Status", "Total", "Created At"},
		Rows:    rows,
	}
}

// ExportCSV renders all orders as CSV for admin reporting.
func (s *OrderService) ExportCSV(ctx context.Context) ([]byte, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list orders")
	}
	data, err := s.csv.Render(orderDataset(orders))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// Receipt renders a PDF receipt for one order, enforcing the same access
// rules as Get.
func (s *OrderService) Receipt(ctx context.Context, id, userID string, role models.UserRole) ([]byte, error) {
	order, err := s.Get(ctx, id, userID, role)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(order.Items)+2)
	for _, item := range order.Items {
		rows = append(rows, map[string]string{
			"Item":     item.Name,
			"Qty":      fmt.Sprintf("%d", item.Quantity),
			"Price":    fmt.Sprintf("%.2f", item.UnitPrice),
			"Subtotal": fmt.Sprintf("%.2f", item.UnitPrice*float64(item.Quantity)),
		})
	}
	rows = append(rows, map[string]string{
		"Item":     "Delivery fee",
		"Subtotal": fmt.Sprintf("%.2f", order.DeliveryFee),
	})
	rows = append(rows, map[string]string{
		"Item":     "Total",
		"Subtotal": fmt.Sprintf("%.2f", order.Total),
	})

	dataset := export.Dataset{
		Headers: []string{"Item", "Qty", "Price", "Subtotal"},
		Rows:    rows,
	}
	data, err := s.pdf.Render(dataset, fmt.Sprintf("Order %s", order.ID))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return data, nil
}
