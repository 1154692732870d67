// seed/seed.go
package seed

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

// SeedLoyaltyConfig creates the singleton loyalty configuration row if
// it does not exist yet.
func SeedLoyaltyConfig() error {
	var existing models.LoyaltyConfig
	err := utils.DB.First(&existing).Error
	if err == nil {
		log.Println("Loyalty configuration already exists. Skipping seeding.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	cfg := models.LoyaltyConfig{
		PointsPerKD:           35,
		ConversionRate:        0.004,
		MaxRedeemPercentage:   0.15,
		WelcomeBonusPoints:    100,
		ReferrerBonusPoints:   400,
		ReferredWelcomePoints: 200,
	}

	if err := utils.DB.Create(&cfg).Error; err != nil {
		return err
	}

	log.Println("Loyalty configuration seeded successfully.")
	return nil
}

// SeedServicePackages inserts the default wash packages once.
func SeedServicePackages() error {
	var count int64
	if err := utils.DB.Model(&models.ServicePackage{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Service packages already exist. Skipping seeding.")
		return nil
	}

	packages := []models.ServicePackage{
		{Name: "Express Wash", Description: "Exterior wash and dry at your doorstep", PriceKD: 4.000, DurationMinutes: 30, Active: true},
		{Name: "Classic Wash", Description: "Exterior and interior clean", PriceKD: 7.000, DurationMinutes: 45, Active: true},
		{Name: "Premium Detail", Description: "Full detail with wax and interior shampoo", PriceKD: 15.000, DurationMinutes: 90, Active: true},
	}

	if err := utils.DB.Create(&packages).Error; err != nil {
		return err
	}

	log.Println("Service packages seeded successfully.")
	return nil
}
