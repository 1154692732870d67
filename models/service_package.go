package models

import "gorm.io/gorm"

// ServicePackage is a bookable wash package with a base price in KD.
type ServicePackage struct {
	gorm.Model
	Name            string  `gorm:"unique;not null" json:"name"`
	Description     string  `json:"description"`
	PriceKD         float64 `gorm:"not null" json:"price_kd"`
	DurationMinutes int     `json:"duration_minutes"`
	Active          bool    `gorm:"default:true" json:"active"`
}
