package orders

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/loyalty"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
)

type CreateInput struct {
	CustomerID       uint
	ServicePackageID uint
	CarType          string
	RequestedPoints  int
}

// Create books a new order. It validates the customer and package,
// prices the order through the redemption calculator, then inserts the
// pending order and deducts the redeemed points in one transaction.
func Create(db *gorm.DB, in CreateInput, cfg models.LoyaltyConfig) (*models.Order, error) {
	var customer models.User
	if err := db.First(&customer, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loyalty.ErrCustomerNotFound
		}
		return nil, err
	}
	if customer.IsBlocked() {
		return nil, ErrCustomerBlocked
	}

	var pkg models.ServicePackage
	if err := db.Where("id = ? AND active = ?", in.ServicePackageID, true).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	redemption, err := loyalty.ComputeRedemption(pkg.PriceKD, in.RequestedPoints, customer.LoyaltyPoints, cfg)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		CustomerID:            customer.ID,
		ServicePackageID:      pkg.ID,
		CarType:               in.CarType,
		Status:                models.OrderStatusPending,
		PriceKD:               redemption.FinalPrice,
		DiscountApplied:       redemption.DiscountApplied,
		LoyaltyPointsRedeemed: redemption.PointsToRedeem,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if redemption.PointsToRedeem > 0 {
			note := fmt.Sprintf("Points redeemed on order #%d", order.ID)
			_, err := loyalty.ApplyPointsChange(tx, customer.ID, -redemption.PointsToRedeem,
				models.TransactionRedeem, &order.ID, note, customer.Email)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}
