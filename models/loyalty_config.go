package models

import "time"

// LoyaltyConfig is a singleton row holding the loyalty program numbers.
// It is loaded at the start of an operation and passed down as a
// parameter so handlers and tests can vary it freely.
type LoyaltyConfig struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	PointsPerKD           float64   `gorm:"not null" json:"points_per_kd"`
	ConversionRate        float64   `gorm:"not null" json:"conversion_rate"`
	MaxRedeemPercentage   float64   `gorm:"not null" json:"max_redeem_percentage"`
	WelcomeBonusPoints    int       `gorm:"not null" json:"welcome_bonus_points"`
	ReferrerBonusPoints   int       `gorm:"not null" json:"referrer_bonus_points"`
	ReferredWelcomePoints int       `gorm:"not null" json:"referred_welcome_points"`
	UpdatedAt             time.Time `json:"updated_at"`
}
