package loyalty

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
)

// ApplyPointsChange mutates a customer's balance and appends the
// matching ledger row. The balance update is a single conditional
// UPDATE statement so two concurrent changes for the same customer
// cannot lose each other; the balance floors at zero, while the ledger
// row always records the requested delta.
//
// Redemptions must be validated against the balance by the caller
// before invoking this; the floor exists so an oversized negative
// admin adjustment zeroes the balance instead of driving it negative.
func ApplyPointsChange(db *gorm.DB, customerID uint, pointsChange int, txType string, orderID *uint, note string, createdBy string) (*models.LoyaltyTransaction, error) {
	if pointsChange == 0 {
		return nil, ErrZeroPointsChange
	}

	var entry models.LoyaltyTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		update := tx.Model(&models.User{}).
			Where("id = ?", customerID).
			Update("loyalty_points", gorm.Expr(
				"CASE WHEN loyalty_points + ? < 0 THEN 0 ELSE loyalty_points + ? END",
				pointsChange, pointsChange,
			))
		if update.Error != nil {
			return update.Error
		}

		var after models.User
		if err := tx.First(&after, customerID).Error; err != nil {
			return err
		}

		entry = models.LoyaltyTransaction{
			CustomerID:   customerID,
			OrderID:      orderID,
			PointsChange: pointsChange,
			BalanceAfter: after.LoyaltyPoints,
			Type:         txType,
			Note:         note,
			CreatedBy:    createdBy,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// History returns a customer's ledger entries, newest first.
func History(db *gorm.DB, customerID uint, page, pageSize int) ([]models.LoyaltyTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	q := db.Model(&models.LoyaltyTransaction{}).Where("customer_id = ?", customerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.LoyaltyTransaction
	err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	return entries, total, err
}
