package loyalty

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
)

// MaybeCompleteReferral awards referral bonuses when a referred
// customer completes their first order. It must be called inside the
// completion transaction, after the earn award and after the
// customer's completed-order count has been bumped.
//
// The pending→completed flip is a conditional update keyed on the
// current status, so the bonuses can only ever be awarded once even if
// two completion attempts race. A missing or already-processed
// referral is a silent no-op.
func MaybeCompleteReferral(tx *gorm.DB, customer models.User, order models.Order, cfg models.LoyaltyConfig) error {
	if customer.ReferredByID == nil || customer.CompletedOrdersCount != 1 {
		return nil
	}

	var referral models.Referral
	err := tx.Where("referred_customer_id = ? AND status = ?", customer.ID, models.ReferralStatusPending).
		First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now()
	claim := tx.Model(&models.Referral{}).
		Where("id = ? AND status = ?", referral.ID, models.ReferralStatusPending).
		Updates(map[string]interface{}{
			"status":         models.ReferralStatusCompleted,
			"first_order_id": order.ID,
			"completed_at":   now,
		})
	if claim.Error != nil {
		return claim.Error
	}
	if claim.RowsAffected == 0 {
		// Lost the race to another completion; nothing left to do.
		return nil
	}

	if cfg.ReferrerBonusPoints > 0 {
		note := fmt.Sprintf("Referral bonus for customer #%d's first order", customer.ID)
		if _, err := ApplyPointsChange(tx, referral.ReferrerID, cfg.ReferrerBonusPoints,
			models.TransactionReferralBonus, &order.ID, note, "system"); err != nil {
			return err
		}
	}

	if cfg.ReferredWelcomePoints > 0 {
		if _, err := ApplyPointsChange(tx, customer.ID, cfg.ReferredWelcomePoints,
			models.TransactionWelcomeBonus, &order.ID, "Referral welcome bonus", "system"); err != nil {
			return err
		}
	}

	return nil
}
