package orders

import "time"

// Order is a purchase order placed by a user.
type Order struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	OrderDate       time.Time `json:"order_date"`
	Status          string    `json:"status"`
	Total           float64   `json:"total"`
	ShippingAddress string    `json:"shipping_address"`
}
