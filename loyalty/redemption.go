package loyalty

import (
	"math"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
)

// Redemption is the outcome of converting requested points into a
// discount at order-creation time.
type Redemption struct {
	DiscountApplied float64
	PointsToRedeem  int
	FinalPrice      float64
}

// ComputeRedemption converts requested points into a discount, capped
// at MaxRedeemPercentage of the base price. All requested points are
// consumed even when the cap truncates the value actually applied;
// the unused remainder is not refunded. The calculator never touches
// the balance itself — the caller deducts via ApplyPointsChange once
// the order insert succeeds.
func ComputeRedemption(basePrice float64, requestedPoints int, customerBalance int, cfg models.LoyaltyConfig) (Redemption, error) {
	if requestedPoints <= 0 {
		return Redemption{FinalPrice: basePrice}, nil
	}
	if requestedPoints > customerBalance {
		return Redemption{}, ErrInsufficientPoints
	}

	maxDiscount := basePrice * cfg.MaxRedeemPercentage
	pointValue := float64(requestedPoints) * cfg.ConversionRate

	discount := math.Min(pointValue, maxDiscount)
	finalPrice := math.Max(0, basePrice-discount)

	return Redemption{
		DiscountApplied: discount,
		PointsToRedeem:  requestedPoints,
		FinalPrice:      finalPrice,
	}, nil
}

// PointsEarned is the earn award for a completed order.
func PointsEarned(priceKD float64, cfg models.LoyaltyConfig) int {
	return int(math.Floor(priceKD * cfg.PointsPerKD))
}
