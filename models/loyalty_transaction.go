package models

import "time"

// Loyalty transaction types.
const (
	TransactionEarn            = "earn"
	TransactionRedeem          = "redeem"
	TransactionReferralBonus   = "referral_bonus"
	TransactionWelcomeBonus    = "welcome_bonus"
	TransactionAdminAdjustment = "admin_adjustment"
)

// LoyaltyTransaction is an append-only ledger entry. Rows are never
// updated or deleted; the sum of PointsChange per customer backs the
// balance on the user row.
type LoyaltyTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"index;not null" json:"customer_id"`
	OrderID      *uint     `gorm:"index" json:"order_id,omitempty"`
	PointsChange int       `gorm:"not null" json:"points_change"`
	BalanceAfter int       `gorm:"not null" json:"balance_after"`
	Type         string    `gorm:"not null" json:"type"`
	Note         string    `json:"note"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}
