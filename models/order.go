package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Completed and cancelled are terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusAssigned   = "assigned"
	OrderStatusOnTheWay   = "on_the_way"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	gorm.Model
	CustomerID            uint       `gorm:"index;not null" json:"customer_id"`
	ServicePackageID      uint       `gorm:"not null" json:"service_package_id"`
	CarType               string     `json:"car_type"`
	Status                string     `gorm:"index;not null;default:pending" json:"status"`
	PriceKD               float64    `gorm:"not null" json:"price_kd"`
	DiscountApplied       float64    `gorm:"not null;default:0" json:"discount_applied"`
	LoyaltyPointsRedeemed int        `gorm:"not null;default:0" json:"loyalty_points_redeemed"`
	LoyaltyPointsEarned   int        `gorm:"not null;default:0" json:"loyalty_points_earned"`
	AssignedDriverID      *uint      `gorm:"index" json:"assigned_driver_id,omitempty"`
	AssignedAt            *time.Time `json:"assigned_at,omitempty"`
	OnTheWayAt            *time.Time `json:"on_the_way_at,omitempty"`
	StartedAt             *time.Time `json:"started_at,omitempty"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	CancelReason          string     `json:"cancel_reason,omitempty"`
}

func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}
