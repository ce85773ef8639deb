package models

import (
	"time"
)

// NotificationStatus tracks one outbound email of an order.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Order is the record written before notifications go out, so an operator
// can follow up on orders whose emails did not all arrive.
type Order struct {
	ID                     string             `gorm:"primaryKey;type:varchar(32)" json:"id"`
	CustomerName           string             `gorm:"type:varchar(100);not null" json:"customer_name"`
	Email                  string             `gorm:"type:varchar(100);not null;index" json:"email"`
	Phone                  string             `gorm:"type:varchar(20)" json:"phone"`
	Address                string             `gorm:"type:text" json:"address"`
	Notes                  string             `gorm:"type:text" json:"notes"`
	Items                  string             `gorm:"type:text" json:"items"` // JSON string
	Subtotal               int64              `json:"subtotal"`
	DeliveryFee            int64              `json:"delivery_fee"`
	TotalAmount            int64              `json:"total_amount"`
	ProofKey               string             `gorm:"type:varchar(255)" json:"proof_key"`
	CustomerNotification   NotificationStatus `gorm:"type:varchar(16);default:'pending';index" json:"customer_notification"`
	RestaurantNotification NotificationStatus `gorm:"type:varchar(16);default:'pending';index" json:"restaurant_notification"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// Delivered reports whether both notifications went out.
func (o Order) Delivered() bool {
	return o.CustomerNotification == NotificationSent && o.RestaurantNotification == NotificationSent
}

// OrderItem is the flattened cart line stored in Order.Items.
type OrderItem struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}
