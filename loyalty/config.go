package loyalty

import (
	"gorm.io/gorm"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
)

// GetConfig loads the singleton loyalty configuration row. Callers load
// it once per operation and pass it down so a config update mid-request
// cannot split an order across two rule sets.
func GetConfig(db *gorm.DB) (models.LoyaltyConfig, error) {
	var cfg models.LoyaltyConfig
	err := db.First(&cfg).Error
	return cfg, err
}
