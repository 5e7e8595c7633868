// internal/models/order.go
package models

import (
	"math"
)

// OrderItem is a snapshot of a cart line at checkout time, not a reference.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Volume    string  `json:"volume,omitempty"`
	PrintType string  `json:"printType,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Order struct {
	BaseModel
	TrackingNumber string        `json:"trackingNumber"`
	CustomerName   string        `json:"customerName"`
	Phone          string        `json:"phone"`
	Email          string        `json:"email,omitempty"`
	Address        string        `json:"address"`
	City           string        `json:"city,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	OrderStatus    OrderStatus   `json:"orderStatus"`
	TransactionID  string        `json:"transactionId,omitempty"`
	Items          []OrderItem   `json:"items"`
	Total          float64       `json:"total"`
	ShippingCost   float64       `json:"shippingCost"`
	Discount       float64       `json:"discount"`
	FinalTotal     float64       `json:"finalTotal"`
	UserID         string        `json:"userId,omitempty"`
}

// ItemsTotal sums price*quantity over items.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return RoundMoney(total)
}

// ComputeTotals sets Total from the items when it is unset and always
// derives FinalTotal = Total + ShippingCost - Discount.
func (o *Order) ComputeTotals() {
	if o.Total == 0 {
		o.Total = ItemsTotal(o.Items)
	}
	o.FinalTotal = RoundMoney(o.Total + o.ShippingCost - o.Discount)
}

func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
