package migrations

import (
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

func MigrateOrders() {
	utils.DB.AutoMigrate(&models.ServicePackage{}, &models.Order{})
}
