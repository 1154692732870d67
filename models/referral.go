package models

import "time"

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
	ReferralStatusInvalid   = "invalid"
)

// Referral links a referrer to a newly registered customer. It is
// completed exactly once, by the referred customer's first completed
// order.
type Referral struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	ReferrerID         uint       `gorm:"index;not null" json:"referrer_id"`
	ReferredCustomerID uint       `gorm:"uniqueIndex;not null" json:"referred_customer_id"`
	FirstOrderID       *uint      `json:"first_order_id,omitempty"`
	Status             string     `gorm:"not null;default:pending" json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}
