// internal/models/common.go
package models

import (
	"time"
)

// BaseModel holds the fields the document store assigns on insert.
type BaseModel struct {
	ID        string    `json:"_id,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JSONB is a free-form JSON object.
type JSONB map[string]interface{}

// Enums
type ProductCategory string

const (
	CategoryManga        ProductCategory = "Manga"
	CategoryLightNovel   ProductCategory = "Light Novel"
	CategoryFigures      ProductCategory = "Figures"
	CategoryAccessories  ProductCategory = "Accessories"
	CategoryClothing     ProductCategory = "Clothing"
	CategoryGaming       ProductCategory = "Gaming"
	CategoryArtBooks     ProductCategory = "Art Books"
	CategoryCollectibles ProductCategory = "Collectibles"
)

var ProductCategories = []ProductCategory{
	CategoryManga,
	CategoryLightNovel,
	CategoryFigures,
	CategoryAccessories,
	CategoryClothing,
	CategoryGaming,
	CategoryArtBooks,
	CategoryCollectibles,
}

func (c ProductCategory) Valid() bool {
	for _, known := range ProductCategories {
		if c == known {
			return true
		}
	}
	return false
}

// RequiresAuthor reports whether products of this category are books.
func (c ProductCategory) RequiresAuthor() bool {
	return c == CategoryManga || c == CategoryLightNovel || c == CategoryArtBooks
}

func (c ProductCategory) RequiresPrintType() bool {
	return c == CategoryManga || c == CategoryLightNovel
}

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodBkash  PaymentMethod = "bkash"
	PaymentMethodNagad  PaymentMethod = "nagad"
	PaymentMethodRocket PaymentMethod = "rocket"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBkash, PaymentMethodNagad, PaymentMethodRocket:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type NotificationType string

const (
	NotificationTypeOrder     NotificationType = "order"
	NotificationTypeProduct   NotificationType = "product"
	NotificationTypeUser      NotificationType = "user"
	NotificationTypeSystem    NotificationType = "system"
	NotificationTypeInventory NotificationType = "inventory"
	NotificationTypePayment   NotificationType = "payment"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeOrder, NotificationTypeProduct, NotificationTypeUser,
		NotificationTypeSystem, NotificationTypeInventory, NotificationTypePayment:
		return true
	}
	return false
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

const (
	UserRoleUser = "user"

	AdminRoleSuperAdmin = "superadmin"
	AdminRoleAdmin      = "admin"
	AdminRoleEditor     = "editor"
)

func ValidAdminRole(role string) bool {
	switch role {
	case AdminRoleSuperAdmin, AdminRoleAdmin, AdminRoleEditor:
		return true
	}
	return false
}
