package models

import (
	"gorm.io/gorm"
)

// User roles. A delegate is a field driver who accepts and fulfils orders.
const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RoleDelegate   = "delegate"
)

const (
	UserStatusActive  = "active"
	UserStatusBlocked = "blocked"
)

type User struct {
	gorm.Model
	Name                 string `gorm:"not null" json:"name"`
	Email                string `gorm:"unique;not null" json:"email"`
	PhoneNumber          string `json:"phone_number"`
	Password             string `gorm:"not null" json:"-"`
	Role                 string `gorm:"not null;default:customer" json:"role"`
	Status               string `gorm:"not null;default:active" json:"status"`
	LoyaltyPoints        int    `gorm:"not null;default:0" json:"loyalty_points"`
	ReferralCode         string `gorm:"unique;not null" json:"referral_code"`
	ReferredByID         *uint  `gorm:"column:referred_by_id" json:"referred_by_id,omitempty"`
	CompletedOrdersCount int    `gorm:"not null;default:0" json:"completed_orders_count"`
}

func (u *User) IsBlocked() bool {
	return u.Status == UserStatusBlocked
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
