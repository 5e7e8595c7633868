// internal/services/order_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/ledger"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
	"github.com/otakughor/backend/internal/store"
	"github.com/otakughor/backend/internal/utils"
)

var orderSortFields = []string{"createdAt", "updatedAt", "finalTotal", "total", "customerName", "orderStatus", "paymentStatus"}

type OrderService struct {
	orders              *repository.OrderRepository
	notifications       *NotificationService
	outbox              *ledger.Outbox
	mail                *MailService
	defaultShippingCost float64
}

type CartItemRequest struct {
	ProductID string   `json:"productId" validate:"required"`
	Name      string   `json:"name" validate:"required,max=200"`
	Volume    string   `json:"volume" validate:"omitempty,max=50"`
	PrintType string   `json:"printType" validate:"omitempty,max=50"`
	Price     *float64 `json:"price" validate:"required,gte=0"`
	Quantity  int      `json:"quantity" validate:"required,min=1"`
	Image     string   `json:"image"`
}

type CreateOrderRequest struct {
	CustomerName  string            `json:"customerName" validate:"required,max=100"`
	Phone         string            `json:"phone" validate:"required,max=20"`
	Email         string            `json:"email" validate:"omitempty,email"`
	Address       string            `json:"address" validate:"required,max=500"`
	City          string            `json:"city" validate:"omitempty,max=100"`
	Notes         string            `json:"notes" validate:"omitempty,max=1000"`
	PaymentMethod string            `json:"paymentMethod" validate:"required,payment_method"`
	TransactionID string            `json:"transactionId" validate:"omitempty,max=100"`
	CartItems     []CartItemRequest `json:"cartItems" validate:"required,min=1,dive"`
	ShippingCost  *float64          `json:"shippingCost" validate:"omitempty,gte=0"`
	Discount      float64           `json:"discount" validate:"gte=0"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus   string `json:"orderStatus" validate:"omitempty,order_status"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,payment_status"`
}

type OrderQuery struct {
	Params        utils.PaginationParams
	OrderStatus   string
	PaymentStatus string
	PaymentMethod string
}

func NewOrderService(orders *repository.OrderRepository, notifications *NotificationService, outbox *ledger.Outbox, mail *MailService, cfg *config.Config) *OrderService {
	return &OrderService{
		orders:              orders,
		notifications:       notifications,
		outbox:              outbox,
		mail:                mail,
		defaultShippingCost: cfg.Shop.DefaultShippingCost,
	}
}

// CreateOrder places an order. customer is nil for guest checkout.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest, customer Principal) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Volume:    item.Volume,
			PrintType: item.PrintType,
			Price:     *item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	shipping := s.defaultShippingCost
	if req.ShippingCost != nil {
		shipping = *req.ShippingCost
	}

	total := models.ItemsTotal(items)
	if req.Discount > total+shipping {
		return nil, invalid(utils.NewValidationError("discount", "lte",
			"discount cannot exceed total plus shipping"))
	}

	order := &models.Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         strings.TrimSpace(req.Email),
		Address:       req.Address,
		City:          req.City,
		Notes:         req.Notes,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		TransactionID: req.TransactionID,
		Items:         items,
		Total:         total,
		ShippingCost:  shipping,
		Discount:      req.Discount,
	}
	if u, ok := customer.(*UserPrincipal); ok {
		order.UserID = u.ID()
		if order.Email == "" {
			order.Email = u.User.Email
		}
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":        created.ID,
		"tracking_number": created.TrackingNumber,
		"final_total":     created.FinalTotal,
	}).Info("Order placed")

	s.notifications.OrderCreated(ctx, created)
	s.outbox.EnqueueOrder(ctx, created)

	// Send confirmation email (async)
	if s.mail != nil && created.Email != "" {
		go func(o models.Order) {
			if err := s.mail.SendOrderConfirmation(context.Background(), &o); err != nil {
				logrus.WithError(err).WithField("order_id", o.ID).Warn("Failed to send order confirmation")
			}
		}(*created)
	}

	return created, nil
}

func (s *OrderService) TrackOrder(ctx context.Context, trackingNumber string) (*models.Order, error) {
	order, err := s.orders.FindByTrackingNumber(ctx, strings.ToUpper(strings.TrimSpace(trackingNumber)))
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

func (s *OrderService) UserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.List(ctx, store.Where(store.Eq("userId", userID)))
}

func (s *OrderService) RecentOrders(ctx context.Context, n int) ([]models.Order, error) {
	orders, err := s.orders.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(orders) > n {
		orders = orders[:n]
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

// ListOrders returns one page of matching orders and the total number of
// matches.
func (s *OrderService) ListOrders(ctx context.Context, q OrderQuery) ([]models.Order, int, error) {
	filter := store.Filter{}
	if q.OrderStatus != "" {
		filter = filter.And(store.Eq("orderStatus", q.OrderStatus))
	}
	if q.PaymentStatus != "" {
		filter = filter.And(store.Eq("paymentStatus", q.PaymentStatus))
	}
	if q.PaymentMethod != "" {
		filter = filter.And(store.Eq("paymentMethod", q.PaymentMethod))
	}
	if term := strings.TrimSpace(q.Params.Search); term != "" {
		filter = filter.And(store.Contains(term, orderSearchFields...))
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortOrders(orders, q.Params.SortField(orderSortFields), q.Params.Desc())
	return utils.Paginate(orders, q.Params), len(orders), nil
}

var orderSearchFields = []string{"trackingNumber", "customerName", "phone", "email", "address"}

func sortOrders(orders []models.Order, field string, desc bool) {
	less := func(a, b *models.Order) bool {
		switch field {
		case "finalTotal":
			return a.FinalTotal < b.FinalTotal
		case "total":
			return a.Total < b.Total
		case "customerName":
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		case "orderStatus":
			return a.OrderStatus < b.OrderStatus
		case "paymentStatus":
			return a.PaymentStatus < b.PaymentStatus
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if desc {
			return less(&orders[j], &orders[i])
		}
		return less(&orders[i], &orders[j])
	})
}

// UpdateStatus changes order and/or payment status, then notifies and
// mirrors the change to the ledger.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if req.OrderStatus == "" && req.PaymentStatus == "" {
		return nil, invalid(utils.NewValidationError("orderStatus", "required",
			"orderStatus or paymentStatus is required"))
	}

	existing, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}

	updated, err := s.orders.UpdateStatus(ctx, id, models.OrderStatus(req.OrderStatus), models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return nil, notFound(err, "order")
	}

	if updated.OrderStatus == existing.OrderStatus && updated.PaymentStatus == existing.PaymentStatus {
		return updated, nil
	}

	logrus.WithFields(logrus.Fields{
		"order_id":        updated.ID,
		"tracking_number": updated.TrackingNumber,
		"order_status":    updated.OrderStatus,
		"payment_status":  updated.PaymentStatus,
	}).Info("Order status updated")

	s.notifications.OrderStatusChanged(ctx, updated, existing.OrderStatus)
	s.outbox.EnqueueUpdate(ctx, updated)
	return updated, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) (*models.Order, error) {
	deleted, err := s.orders.Delete(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return deleted, nil
}

func (s *OrderService) Stats(ctx context.Context) (*repository.OrderStats, error) {
	return s.orders.Stats(ctx)
}
