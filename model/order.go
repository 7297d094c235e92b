package model

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type OrderItem struct {
	ProductID    string  `bson:"product_id" json:"product_id"`
	Name         string  `bson:"name" json:"name"`
	Price        float64 `bson:"price" json:"price"`
	SelectedSize string  `bson:"selected_size,omitempty" json:"selected_size,omitempty"`
	Quantity     int     `bson:"quantity" json:"quantity"`
}

type Order struct {
	OrderID   string      `bson:"_id,omitempty" json:"id"`
	UserID    string      `bson:"user_id" json:"user_id"`
	Items     []OrderItem `bson:"items" json:"items"`
	Status    OrderStatus `bson:"status" json:"status"`
	// Total is kept loosely typed because historical orders stored it as a
	// numeric string. ParseMoney coerces it at the store boundary.
	Total     interface{} `bson:"total" json:"total"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}

// TotalAmount returns the order total as a number, coercing numeric strings
// and defaulting malformed values to 0.
func (o *Order) TotalAmount() float64 {
	return ParseMoney(o.Total)
}
