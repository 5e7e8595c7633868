// internal/repository/order_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/store"
	"github.com/otakughor/backend/internal/utils"
)

type OrderRepository struct {
	coll collection[models.Order]
	now  func() time.Time
}

func NewOrderRepository(s store.Store) *OrderRepository {
	return &OrderRepository{
		coll: collection[models.Order]{store: s, name: CollectionOrders},
		now:  time.Now,
	}
}

type OrderStats struct {
	TotalOrders       int            `json:"totalOrders"`
	TotalRevenue      float64        `json:"totalRevenue"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	PendingOrders     int            `json:"pendingOrders"`
	ByStatus          map[string]int `json:"byStatus"`
	ByPaymentMethod   map[string]int `json:"byPaymentMethod"`
	ByPaymentStatus   map[string]int `json:"byPaymentStatus"`
}

// Create fills in the tracking number, statuses and totals when absent and
// stores the order.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.TrackingNumber == "" {
		trackingNumber, err := r.newTrackingNumber(ctx)
		if err != nil {
			return nil, err
		}
		order.TrackingNumber = trackingNumber
	}
	if order.OrderStatus == "" {
		order.OrderStatus = models.OrderStatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	order.ComputeTotals()
	order.ID = ""

	return r.coll.insert(ctx, order)
}

func (r *OrderRepository) newTrackingNumber(ctx context.Context) (string, error) {
	for {
		trackingNumber, err := utils.GenerateTrackingNumber(r.now())
		if err != nil {
			return "", fmt.Errorf("failed to generate tracking number: %w", err)
		}
		_, err = r.FindByTrackingNumber(ctx, trackingNumber)
		if IsNotFound(err) {
			return trackingNumber, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	return r.coll.findByID(ctx, id)
}

func (r *OrderRepository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error) {
	return r.coll.findOne(ctx, store.Where(store.Eq("trackingNumber", trackingNumber)))
}

// List returns matching orders, newest first.
func (r *OrderRepository) List(ctx context.Context, filter store.Filter) ([]models.Order, error) {
	return r.coll.findSorted(ctx, filter, store.FieldCreatedAt, true)
}

// UpdateStatus changes whichever of the two statuses is non-empty.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, orderStatus models.OrderStatus, paymentStatus models.PaymentStatus) (*models.Order, error) {
	patch := store.Document{}
	if orderStatus != "" {
		patch["orderStatus"] = string(orderStatus)
	}
	if paymentStatus != "" {
		patch["paymentStatus"] = string(paymentStatus)
	}
	return r.coll.update(ctx, id, patch)
}

// Update never rewrites the tracking number.
func (r *OrderRepository) Update(ctx context.Context, id string, patch store.Document) (*models.Order, error) {
	patch = patch.Clone()
	delete(patch, "trackingNumber")
	return r.coll.update(ctx, id, patch)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) (*models.Order, error) {
	return r.coll.delete(ctx, id)
}

func (r *OrderRepository) Count(ctx context.Context, filter store.Filter) (int, error) {
	return r.coll.count(ctx, filter)
}

// Stats reports order counts per status and revenue over non-cancelled
// orders.
func (r *OrderRepository) Stats(ctx context.Context) (*OrderStats, error) {
	stats := &OrderStats{
		ByStatus:        map[string]int{},
		ByPaymentMethod: map[string]int{},
		ByPaymentStatus: map[string]int{},
	}

	for field, target := range map[string]map[string]int{
		"orderStatus":   stats.ByStatus,
		"paymentMethod": stats.ByPaymentMethod,
		"paymentStatus": stats.ByPaymentStatus,
	} {
		groups, err := r.coll.store.Aggregate(ctx, CollectionOrders,
			store.Group{By: field, Fields: map[string]store.Accumulator{"count": store.Count()}},
		)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			key, _ := g[store.FieldID].(string)
			target[key] = int(number(g, "count"))
			if field == "orderStatus" {
				stats.TotalOrders += int(number(g, "count"))
			}
		}
	}
	stats.PendingOrders = stats.ByStatus[string(models.OrderStatusPending)]

	revenue, err := r.coll.store.Aggregate(ctx, CollectionOrders,
		store.Match{Filter: store.Where(store.Ne("orderStatus", string(models.OrderStatusCancelled)))},
		store.Group{Fields: map[string]store.Accumulator{
			"revenue": store.Sum("finalTotal"),
			"average": store.Avg("finalTotal"),
		}},
	)
	if err != nil {
		return nil, err
	}
	if len(revenue) > 0 {
		stats.TotalRevenue = models.RoundMoney(number(revenue[0], "revenue"))
		stats.AverageOrderValue = models.RoundMoney(number(revenue[0], "average"))
	}

	return stats, nil
}
