// Package orders owns the order lifecycle: creation, the status state
// machine, and the completion side effects that feed the loyalty
// ledger. Status moves are conditional updates keyed on the current
// status, so concurrent attempts resolve to exactly one winner.
//
// Cancelling an order does not refund points already redeemed on it;
// redemption is treated as a sunk cost.
package orders

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/loyalty"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
)

const defaultDelegateOrderCap = 5

var nextStatuses = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusAssigned, models.OrderStatusCancelled},
	models.OrderStatusAssigned:   {models.OrderStatusOnTheWay, models.OrderStatusCancelled},
	models.OrderStatusOnTheWay:   {models.OrderStatusInProgress, models.OrderStatusCancelled},
	models.OrderStatusInProgress: {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to string) bool {
	for _, s := range nextStatuses[from] {
		if s == to {
			return true
		}
	}
	return false
}

// DelegateOrderCap is the maximum number of concurrently active orders
// (assigned, on the way, or in progress) a delegate may hold.
func DelegateOrderCap() int {
	if v := os.Getenv("DELEGATE_ORDER_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultDelegateOrderCap
}

// Transition applies a status change on behalf of an actor. Assignment
// goes through Accept, cancellation through Cancel; the forward moves
// (on_the_way, in_progress, completed) may only be made by the
// assigned driver or an admin.
func Transition(db *gorm.DB, orderID uint, requested string, actor models.User, cfg models.LoyaltyConfig) (*models.Order, error) {
	switch requested {
	case models.OrderStatusAssigned:
		return Accept(db, orderID, actor)
	case models.OrderStatusCancelled:
		return Cancel(db, orderID, actor, "")
	case models.OrderStatusOnTheWay, models.OrderStatusInProgress:
		return progress(db, orderID, requested, actor)
	case models.OrderStatusCompleted:
		return complete(db, orderID, actor, cfg)
	default:
		order, err := loadOrder(db, orderID)
		if err != nil {
			return nil, err
		}
		return nil, &InvalidTransitionError{From: order.Status, To: requested}
	}
}

// Accept assigns a pending, unassigned order to a delegate. The
// assignment is a conditional update so two delegates racing for the
// same order cannot both win.
func Accept(db *gorm.DB, orderID uint, actor models.User) (*models.Order, error) {
	if actor.Role != models.RoleDelegate {
		return nil, ErrNotAuthorized
	}

	var active int64
	err := db.Model(&models.Order{}).
		Where("assigned_driver_id = ? AND status IN ?", actor.ID, []string{
			models.OrderStatusAssigned,
			models.OrderStatusOnTheWay,
			models.OrderStatusInProgress,
		}).
		Count(&active).Error
	if err != nil {
		return nil, err
	}
	if active >= int64(DelegateOrderCap()) {
		return nil, ErrDelegateCapReached
	}

	now := time.Now()
	claim := db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND assigned_driver_id IS NULL", orderID, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":             models.OrderStatusAssigned,
			"assigned_driver_id": actor.ID,
			"assigned_at":        now,
		})
	if claim.Error != nil {
		return nil, claim.Error
	}
	if claim.RowsAffected == 0 {
		order, err := loadOrder(db, orderID)
		if err != nil {
			return nil, err
		}
		return nil, &InvalidTransitionError{From: order.Status, To: models.OrderStatusAssigned}
	}

	return loadOrder(db, orderID)
}

// progress moves an assigned order one step forward and stamps the
// matching timestamp.
func progress(db *gorm.DB, orderID uint, requested string, actor models.User) (*models.Order, error) {
	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(order.Status, requested) {
		return nil, &InvalidTransitionError{From: order.Status, To: requested}
	}
	if err := authorizeDriver(order, actor); err != nil {
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{"status": requested}
	switch requested {
	case models.OrderStatusOnTheWay:
		fields["on_the_way_at"] = now
	case models.OrderStatusInProgress:
		fields["started_at"] = now
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		fresh, err := loadOrder(db, orderID)
		if err != nil {
			return nil, err
		}
		return nil, &InvalidTransitionError{From: fresh.Status, To: requested}
	}

	return loadOrder(db, orderID)
}

// complete finishes an in-progress order. The status flip, the earn
// award, the completed-order counter and the referral check all run in
// one transaction, so a failure in any step rolls the whole move back
// and a duplicate completion request can never double-award points.
func complete(db *gorm.DB, orderID uint, actor models.User, cfg models.LoyaltyConfig) (*models.Order, error) {
	var completed models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == models.OrderStatusCompleted {
			return ErrAlreadyCompleted
		}
		if !CanTransition(order.Status, models.OrderStatusCompleted) {
			return &InvalidTransitionError{From: order.Status, To: models.OrderStatusCompleted}
		}
		if err := authorizeDriver(order, actor); err != nil {
			return err
		}

		now := time.Now()
		earned := loyalty.PointsEarned(order.PriceKD, cfg)

		claim := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusInProgress).
			Updates(map[string]interface{}{
				"status":                models.OrderStatusCompleted,
				"completed_at":          now,
				"loyalty_points_earned": earned,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrAlreadyCompleted
		}

		if earned > 0 {
			note := fmt.Sprintf("Points earned on order #%d", order.ID)
			if _, err := loyalty.ApplyPointsChange(tx, order.CustomerID, earned,
				models.TransactionEarn, &order.ID, note, actor.Email); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", order.CustomerID).
			Update("completed_orders_count", gorm.Expr("completed_orders_count + 1")).Error; err != nil {
			return err
		}

		var customer models.User
		if err := tx.First(&customer, order.CustomerID).Error; err != nil {
			return err
		}

		order.Status = models.OrderStatusCompleted
		order.CompletedAt = &now
		order.LoyaltyPointsEarned = earned

		if err := loyalty.MaybeCompleteReferral(tx, customer, *order, cfg); err != nil {
			return err
		}

		completed = *order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &completed, nil
}

// Cancel moves a non-terminal order to cancelled and records the
// reason. Allowed for the owning customer, the assigned driver, or an
// admin. Points already redeemed on the order are not refunded.
func Cancel(db *gorm.DB, orderID uint, actor models.User, reason string) (*models.Order, error) {
	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsTerminal() {
		return nil, &InvalidTransitionError{From: order.Status, To: models.OrderStatusCancelled}
	}
	if !actor.IsAdmin() && actor.ID != order.CustomerID && !isAssignedDriver(order, actor) {
		return nil, ErrNotAuthorized
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Updates(map[string]interface{}{
			"status":        models.OrderStatusCancelled,
			"cancel_reason": reason,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		fresh, err := loadOrder(db, orderID)
		if err != nil {
			return nil, err
		}
		return nil, &InvalidTransitionError{From: fresh.Status, To: models.OrderStatusCancelled}
	}

	return loadOrder(db, orderID)
}

func loadOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func isAssignedDriver(order *models.Order, actor models.User) bool {
	return order.AssignedDriverID != nil && *order.AssignedDriverID == actor.ID
}

func authorizeDriver(order *models.Order, actor models.User) error {
	if actor.IsAdmin() || isAssignedDriver(order, actor) {
		return nil
	}
	return ErrNotAuthorized
}
