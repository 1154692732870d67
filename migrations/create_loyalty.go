package migrations

import (
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

func MigrateLoyalty() {
	utils.DB.AutoMigrate(&models.LoyaltyTransaction{}, &models.Referral{}, &models.LoyaltyConfig{})
}
