package domain

import "time"

// OrderStatusPending is the status the backend assigns to freshly created
// order headers.
const OrderStatusPending = "pendiente"

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	TotalCents int64       `json:"totalCents"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	Lines      []OrderLine `json:"lines,omitempty"`
}

type OrderLine struct {
	OrderID        string `json:"orderId,omitempty"`
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}
