// internal/repository/notification_repository.go
package repository

import (
	"context"
	"slices"
	"time"

	"github.com/otakughor/backend/internal/models"
	"github.com/otakughor/backend/internal/store"
)

type NotificationRepository struct {
	coll collection[models.Notification]
}

func NewNotificationRepository(s store.Store) *NotificationRepository {
	return &NotificationRepository{coll: collection[models.Notification]{store: s, name: CollectionNotifications}}
}

// Recipient scopes notification queries. An admin recipient sees every
// notification; a user sees user-audience broadcasts plus their own.
type Recipient struct {
	UserID string
	Admin  bool
}

type NotificationQuery struct {
	Recipient  Recipient
	UnreadOnly bool
	Type       models.NotificationType
	Priority   models.NotificationPriority
}

// Create defaults the audience to users for addressed notifications and to
// admins otherwise.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	n.ID = ""
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	if n.Type == "" {
		n.Type = models.NotificationTypeSystem
	}
	if n.UserID != nil {
		n.Audience = models.AudienceUsers
	} else if n.Audience == "" {
		n.Audience = models.AudienceAdmins
	}
	n.IsRead = false
	n.ReadAt = nil
	n.ReadBy = nil
	return r.coll.insert(ctx, n)
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	return r.coll.findByID(ctx, id)
}

// ListFor returns the notifications visible to q.Recipient, newest first,
// with IsRead reflecting the recipient's own read state.
func (r *NotificationRepository) ListFor(ctx context.Context, q NotificationQuery) ([]models.Notification, error) {
	rc := q.Recipient
	filter := store.Filter{}
	if !rc.Admin {
		filter = filter.And(store.Eq("audience", string(models.AudienceUsers)))
	} else if q.UnreadOnly {
		filter = filter.And(store.Eq("isRead", false))
	}
	if q.Type != "" {
		filter = filter.And(store.Eq("type", string(q.Type)))
	}
	if q.Priority != "" {
		filter = filter.And(store.Eq("priority", string(q.Priority)))
	}

	all, err := r.coll.findSorted(ctx, filter, store.FieldCreatedAt, true)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Notification, 0, len(all))
	for i := range all {
		n := &all[i]
		if !rc.CanSee(n) || (q.UnreadOnly && rc.HasRead(n)) {
			continue
		}
		visible = append(visible, rc.View(*n))
	}
	return visible, nil
}

func (rc Recipient) CanSee(n *models.Notification) bool {
	if rc.Admin {
		return true
	}
	if n.Audience != models.AudienceUsers {
		return false
	}
	return n.UserID == nil || *n.UserID == rc.UserID
}

// HasRead reports rc's read state of n. Users track broadcasts per user.
func (rc Recipient) HasRead(n *models.Notification) bool {
	if !rc.Admin && n.IsBroadcast() {
		return slices.Contains(n.ReadBy, rc.UserID)
	}
	return n.IsRead
}

// View returns n as rc sees it. Users never see who else read a broadcast.
func (rc Recipient) View(n models.Notification) models.Notification {
	if rc.Admin {
		return n
	}
	if n.IsBroadcast() {
		n.IsRead = rc.HasRead(&n)
		n.ReadAt = nil
	}
	n.ReadBy = nil
	return n
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, recipient Recipient) (int, error) {
	unread, err := r.ListFor(ctx, NotificationQuery{Recipient: recipient, UnreadOnly: true})
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

// MarkRead records that recipient read n. A user reading a broadcast is
// added to ReadBy and leaves the shared flag alone.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipient Recipient, n *models.Notification, at time.Time) (*models.Notification, error) {
	patch := store.Document{"isRead": true, "readAt": at.UTC()}
	if !recipient.Admin && n.IsBroadcast() {
		readBy := make([]interface{}, 0, len(n.ReadBy)+1)
		for _, id := range n.ReadBy {
			readBy = append(readBy, id)
		}
		patch = store.Document{"readBy": append(readBy, recipient.UserID)}
	}

	updated, err := r.coll.update(ctx, n.ID, patch)
	if err != nil {
		return nil, err
	}
	view := recipient.View(*updated)
	return &view, nil
}

// MarkAllRead marks every notification unread for recipient and returns how
// many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipient Recipient, at time.Time) (int, error) {
	unread, err := r.ListFor(ctx, NotificationQuery{Recipient: recipient, UnreadOnly: true})
	if err != nil {
		return 0, err
	}
	for i := range unread {
		current, err := r.FindByID(ctx, unread[i].ID)
		if err != nil {
			return 0, err
		}
		if _, err := r.MarkRead(ctx, recipient, current, at); err != nil {
			return 0, err
		}
	}
	return len(unread), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) (*models.Notification, error) {
	return r.coll.delete(ctx, id)
}

func (r *NotificationRepository) Count(ctx context.Context, filter store.Filter) (int, error) {
	return r.coll.count(ctx, filter)
}
