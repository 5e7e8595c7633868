// internal/services/notification_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/i18n"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/repository"
)

// NotificationService stores notifications and produces the ones that
// product and order changes trigger. Triggered notifications never fail the
// caller.
type NotificationService struct {
	repo              *repository.NotificationRepository
	lowStockThreshold int
	locale            string
	now               func() time.Time
}

type CreateNotificationRequest struct {
	Title     string                      `json:"title" validate:"required,max=200"`
	Message   string                      `json:"message" validate:"required,max=2000"`
	Type      models.NotificationType     `json:"type" validate:"omitempty,notification_type"`
	Priority  models.NotificationPriority `json:"priority" validate:"omitempty,notification_priority"`
	Audience  models.NotificationAudience `json:"audience" validate:"omitempty,oneof=admins users"`
	UserID    *string                     `json:"userId"`
	ActionURL string                      `json:"actionUrl" validate:"omitempty,max=500"`
	Icon      string                      `json:"icon" validate:"omitempty,max=50"`
}

type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

func NewNotificationService(repo *repository.NotificationRepository, cfg *config.Config) *NotificationService {
	return &NotificationService{
		repo:              repo,
		lowStockThreshold: cfg.Shop.LowStockThreshold,
		locale:            cfg.I18n.DefaultLocale,
		now:               time.Now,
	}
}

func (s *NotificationService) LowStockThreshold() int {
	return s.lowStockThreshold
}

func (s *NotificationService) notify(ctx context.Context, n *models.Notification) {
	if _, err := s.repo.Create(ctx, n); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":  n.Type,
			"title": n.Title,
		}).Error("Failed to create notification")
	}
}

// StockChanged emits an out-of-stock notification when stock drops to zero
// from a positive value, or a low-stock one when it crosses into
// (0, threshold] from above.
func (s *NotificationService) StockChanged(ctx context.Context, product *models.Product, previous int) {
	current := product.Stock
	actionURL := "/admin/products/" + product.ID
	metadata := models.JSONB{"productId": product.ID, "stock": current, "previousStock": previous}

	switch {
	case current == 0 && previous > 0:
		s.notify(ctx, &models.Notification{
			Title:     "Out of stock",
			Message:   i18n.T(s.locale, i18n.KeyProductOutOfStock, product.Name),
			Type:      models.NotificationTypeInventory,
			Priority:  models.PriorityUrgent,
			Audience:  models.AudienceAdmins,
			ActionURL: actionURL,
			Icon:      "package-x",
			Metadata:  metadata,
		})
	case current > 0 && current <= s.lowStockThreshold && previous > s.lowStockThreshold:
		s.notify(ctx, &models.Notification{
			Title:     "Low stock",
			Message:   i18n.T(s.locale, i18n.KeyProductLowStock, product.Name, current),
			Type:      models.NotificationTypeInventory,
			Priority:  models.PriorityHigh,
			Audience:  models.AudienceAdmins,
			ActionURL: actionURL,
			Icon:      "alert-triangle",
			Metadata:  metadata,
		})
	}
}

func (s *NotificationService) ProductCreated(ctx context.Context, product *models.Product) {
	s.notify(ctx, &models.Notification{
		Title:     "New product",
		Message:   i18n.T(s.locale, i18n.KeyProductNew, product.Name),
		Type:      models.NotificationTypeProduct,
		Priority:  models.PriorityLow,
		Audience:  models.AudienceAdmins,
		ActionURL: "/admin/products/" + product.ID,
		Icon:      "package-plus",
		Metadata:  models.JSONB{"productId": product.ID, "category": string(product.Category)},
	})
}

func (s *NotificationService) OrderCreated(ctx context.Context, order *models.Order) {
	s.notify(ctx, &models.Notification{
		Title:     "New order",
		Message:   i18n.T(s.locale, i18n.KeyOrderNew, order.TrackingNumber, order.CustomerName),
		Type:      models.NotificationTypeOrder,
		Priority:  models.PriorityMedium,
		Audience:  models.AudienceAdmins,
		ActionURL: "/admin/orders/" + order.ID,
		Icon:      "shopping-bag",
		Metadata: models.JSONB{
			"orderId":        order.ID,
			"trackingNumber": order.TrackingNumber,
			"finalTotal":     order.FinalTotal,
		},
	})
}

// OrderStatusChanged notifies admins and, for orders placed by a logged-in
// user, that user.
func (s *NotificationService) OrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) {
	priority := models.PriorityMedium
	if order.OrderStatus == models.OrderStatusCancelled {
		priority = models.PriorityHigh
	}
	message := i18n.T(s.locale, i18n.KeyOrderStatusChanged, order.TrackingNumber, order.OrderStatus)
	metadata := models.JSONB{
		"orderId":        order.ID,
		"trackingNumber": order.TrackingNumber,
		"orderStatus":    string(order.OrderStatus),
		"paymentStatus":  string(order.PaymentStatus),
		"previousStatus": string(previous),
	}

	s.notify(ctx, &models.Notification{
		Title:     "Order status updated",
		Message:   message,
		Type:      models.NotificationTypeOrder,
		Priority:  priority,
		Audience:  models.AudienceAdmins,
		ActionURL: "/admin/orders/" + order.ID,
		Icon:      "truck",
		Metadata:  metadata,
	})

	if order.UserID != "" {
		userID := order.UserID
		s.notify(ctx, &models.Notification{
			Title:     "Your order was updated",
			Message:   message,
			Type:      models.NotificationTypeOrder,
			Priority:  priority,
			Audience:  models.AudienceUsers,
			UserID:    &userID,
			ActionURL: "/orders/track/" + order.TrackingNumber,
			Icon:      "truck",
			Metadata:  metadata,
		})
	}
}

func (s *NotificationService) Create(ctx context.Context, req *CreateNotificationRequest) (*models.Notification, error) {
	n := &models.Notification{
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		Priority:  req.Priority,
		Audience:  req.Audience,
		UserID:    req.UserID,
		ActionURL: req.ActionURL,
		Icon:      req.Icon,
	}
	if n.UserID != nil && *n.UserID == "" {
		n.UserID = nil
	}
	// Manual notifications are for customers unless sent to the staff inbox.
	if n.Audience == "" {
		n.Audience = models.AudienceUsers
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return created, nil
}

func (s *NotificationService) List(ctx context.Context, q repository.NotificationQuery) (*NotificationList, error) {
	all, err := s.repo.ListFor(ctx, q)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadCount(ctx, q.Recipient)
	if err != nil {
		return nil, err
	}
	return &NotificationList{Notifications: all, UnreadCount: unread}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipient repository.Recipient) (int, error) {
	return s.repo.UnreadCount(ctx, recipient)
}

// MarkRead hides notifications the recipient cannot see behind ErrNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, recipient repository.Recipient, id string) (*models.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "notification")
	}
	if !recipient.CanSee(n) {
		return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	if recipient.HasRead(n) {
		view := recipient.View(*n)
		return &view, nil
	}

	updated, err := s.repo.MarkRead(ctx, recipient, n, s.now())
	if err != nil {
		return nil, notFound(err, "notification")
	}
	return updated, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipient repository.Recipient) (int, error) {
	return s.repo.MarkAllRead(ctx, recipient, s.now())
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "notification")
	}
	return nil
}

// RecipientFor maps a principal to the notifications it may see.
func RecipientFor(p Principal) repository.Recipient {
	if _, ok := p.(*AdminPrincipal); ok {
		return repository.Recipient{Admin: true}
	}
	return repository.Recipient{UserID: p.ID()}
}
