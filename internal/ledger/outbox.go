// internal/ledger/outbox.go
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/store"
)

const Collection = "ledger_outbox"

const (
	KindOrder  = "order"
	KindUpdate = "update"
)

const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

var (
	ErrEntryNotFound = errors.New("ledger entry not found")
	ErrNotFailed     = errors.New("ledger entry is not failed")
)

// Entry is one pending or finished delivery.
type Entry struct {
	models.BaseModel
	Kind           string          `json:"kind"`
	TrackingNumber string          `json:"trackingNumber"`
	Payload        json.RawMessage `json:"payload"`
	Status         string          `json:"status"`
	Attempts       int             `json:"attempts"`
	LastError      string          `json:"lastError,omitempty"`
	NextAttemptAt  time.Time       `json:"nextAttemptAt"`
	DeliveredAt    *time.Time      `json:"deliveredAt,omitempty"`
}

// Outbox persists ledger deliveries in the document store. A nil *Outbox
// is a disabled ledger.
type Outbox struct {
	store store.Store
	now   func() time.Time
}

// NewOutbox returns nil when no webhook URL is configured.
func NewOutbox(s store.Store, cfg config.SheetsConfig) *Outbox {
	if !cfg.Enabled() {
		return nil
	}
	return &Outbox{store: s, now: time.Now}
}

func (o *Outbox) Enabled() bool {
	return o != nil
}

// EnqueueOrder records a new order row. Errors are logged only.
func (o *Outbox) EnqueueOrder(ctx context.Context, order *models.Order) {
	if o == nil {
		return
	}
	items := make([]PayloadItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, PayloadItem{
			Name:      item.Name,
			Volume:    item.Volume,
			PrintType: item.PrintType,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	address := order.Address
	if order.City != "" {
		address = address + ", " + order.City
	}
	o.enqueue(ctx, KindOrder, order.TrackingNumber, OrderPayload{
		Name:           order.CustomerName,
		Phone:          order.Phone,
		Address:        address,
		PaymentMethod:  string(order.PaymentMethod),
		Items:          items,
		Total:          order.FinalTotal,
		TrackingNumber: order.TrackingNumber,
		OrderStatus:    string(order.OrderStatus),
		PaymentStatus:  string(order.PaymentStatus),
		Notes:          order.Notes,
	})
}

// EnqueueUpdate records a status change. Errors are logged only.
func (o *Outbox) EnqueueUpdate(ctx context.Context, order *models.Order) {
	if o == nil {
		return
	}
	o.enqueue(ctx, KindUpdate, order.TrackingNumber, UpdatePayload{
		Action:         "update",
		TrackingNumber: order.TrackingNumber,
		OrderStatus:    string(order.OrderStatus),
		PaymentStatus:  string(order.PaymentStatus),
	})
}

func (o *Outbox) enqueue(ctx context.Context, kind, trackingNumber string, payload interface{}) {
	log := logrus.WithFields(logrus.Fields{
		"kind":            kind,
		"tracking_number": trackingNumber,
	})

	raw, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to encode ledger payload")
		return
	}

	doc, err := store.ToDocument(&Entry{
		Kind:           kind,
		TrackingNumber: trackingNumber,
		Payload:        raw,
		Status:         StatusPending,
		NextAttemptAt:  o.now().UTC(),
	})
	if err != nil {
		log.WithError(err).Error("Failed to encode ledger entry")
		return
	}

	if _, err := o.store.InsertOne(ctx, Collection, doc); err != nil {
		log.WithError(err).Error("Failed to enqueue ledger entry")
		return
	}
	log.Debug("Ledger entry enqueued")
}

// List returns entries newest first, optionally limited to one status.
func (o *Outbox) List(ctx context.Context, status string) ([]Entry, error) {
	filter := store.Filter{}
	if status != "" {
		filter = store.Where(store.Eq("status", status))
	}
	docs, err := o.store.Find(ctx, Collection, filter)
	if err != nil {
		return nil, err
	}
	store.SortDocuments(docs, store.FieldCreatedAt, true)
	return store.DecodeAll[Entry](docs)
}

// Due returns pending entries whose next attempt time has passed, oldest
// first. An entry is held back while an earlier entry for the same tracking
// number is still undelivered, so a row is never updated before it exists.
func (o *Outbox) Due(ctx context.Context, now time.Time) ([]Entry, error) {
	docs, err := o.store.Find(ctx, Collection, store.Where(store.Ne("status", StatusDelivered)))
	if err != nil {
		return nil, err
	}
	store.SortDocuments(docs, store.FieldCreatedAt, false)
	entries, err := store.DecodeAll[Entry](docs)
	if err != nil {
		return nil, err
	}

	blocked := map[string]bool{}
	due := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if blocked[e.TrackingNumber] {
			continue
		}
		blocked[e.TrackingNumber] = true
		if e.Status == StatusPending && !e.NextAttemptAt.After(now) {
			due = append(due, e)
		}
	}
	return due, nil
}

// Retry moves a failed entry back to pending with a fresh attempt budget.
func (o *Outbox) Retry(ctx context.Context, id string) (*Entry, error) {
	entry, err := o.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status != StatusFailed {
		return nil, ErrNotFailed
	}
	return o.update(ctx, id, store.Document{
		"status":        StatusPending,
		"attempts":      0,
		"lastError":     "",
		"nextAttemptAt": o.now().UTC(),
	})
}

func (o *Outbox) markDelivered(ctx context.Context, id string, at time.Time) (*Entry, error) {
	return o.update(ctx, id, store.Document{
		"status":      StatusDelivered,
		"deliveredAt": at.UTC(),
		"lastError":   "",
	})
}

func (o *Outbox) markAttemptFailed(ctx context.Context, e *Entry, status string, cause error, next time.Time) (*Entry, error) {
	return o.update(ctx, e.ID, store.Document{
		"status":        status,
		"attempts":      e.Attempts + 1,
		"lastError":     truncate(cause.Error(), 500),
		"nextAttemptAt": next.UTC(),
	})
}

func (o *Outbox) get(ctx context.Context, id string) (*Entry, error) {
	doc, err := o.store.FindByID(ctx, Collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	var entry Entry
	if err := store.Decode(doc, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (o *Outbox) update(ctx context.Context, id string, patch store.Document) (*Entry, error) {
	doc, err := o.store.UpdateByID(ctx, Collection, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("update ledger entry %s: %w", id, err)
	}
	var entry Entry
	if err := store.Decode(doc, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
