// internal/models/notification.go
package models

import (
	"time"
)

// NotificationAudience decides who may see a notification that is not
// addressed to a single user.
type NotificationAudience string

const (
	// AudienceAdmins is the staff inbox: stock, product and order alerts.
	AudienceAdmins NotificationAudience = "admins"
	// AudienceUsers reaches every user, or only UserID when it is set.
	AudienceUsers NotificationAudience = "users"
)

func (a NotificationAudience) Valid() bool {
	return a == AudienceAdmins || a == AudienceUsers
}

// Notification is addressed to one user (UserID set) or to an audience.
// Admins see every notification. Read state of a user broadcast is kept per
// user in ReadBy; IsRead holds the shared state otherwise.
type Notification struct {
	BaseModel
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Type      NotificationType     `json:"type"`
	Priority  NotificationPriority `json:"priority"`
	Audience  NotificationAudience `json:"audience"`
	IsRead    bool                 `json:"isRead"`
	ReadBy    []string             `json:"readBy,omitempty"`
	UserID    *string              `json:"userId"`
	ActionURL string               `json:"actionUrl,omitempty"`
	Icon      string               `json:"icon,omitempty"`
	ReadAt    *time.Time           `json:"readAt,omitempty"`
	Metadata  JSONB                `json:"metadata,omitempty"`
}

// IsBroadcast reports whether n reaches every user.
func (n *Notification) IsBroadcast() bool {
	return n.UserID == nil && n.Audience == AudienceUsers
}
