package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord is one row of the flat dataset: an order-item/payment/review
// join. Order IDs repeat across rows when an order has several items or
// payment lines.
type OrderRecord struct {
	OrderID     string
	CustomerID  string
	City        string
	State       string
	Category    string
	Payment     decimal.NullDecimal
	Review      float64
	HasReview   bool
	PurchasedAt time.Time
	DeliveredAt time.Time
}

// Delivered reports whether the row has both timestamps needed to compute a
// delivery duration.
func (r OrderRecord) Delivered() bool {
	return !r.PurchasedAt.IsZero() && !r.DeliveredAt.IsZero()
}
