package loyalty

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	loyaltysvc "github.com/fawzybadr22-svg/ghasla-style-web-sub000/loyalty"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

// GetLoyaltyHistory returns the logged-in customer's ledger entries,
// newest first.
func GetLoyaltyHistory(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	entries, total, err := loyaltysvc.History(utils.DB, user.ID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch loyalty history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":      user.LoyaltyPoints,
		"transactions": entries,
		"total":        total,
	})
}

// AdjustPoints lets an admin credit or debit a customer's balance.
// The adjustment goes through the ledger like every other change.
func AdjustPoints(c *gin.Context) {
	adminInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	admin := adminInterface.(models.User)

	customerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	var input struct {
		PointsChange int    `json:"points_change" binding:"required"`
		Note         string `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. points_change must be a non-zero integer."})
		return
	}

	entry, err := loyaltysvc.ApplyPointsChange(utils.DB, uint(customerID), input.PointsChange,
		models.TransactionAdminAdjustment, nil, input.Note, admin.Email)
	if err != nil {
		switch {
		case errors.Is(err, loyaltysvc.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found", "code": "customer_not_found"})
		case errors.Is(err, loyaltysvc.ErrZeroPointsChange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "points_change must be non-zero"})
		default:
			log.Printf("Point adjustment failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust points"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": entry})
}

func GetLoyaltyConfig(c *gin.Context) {
	cfg, err := loyaltysvc.GetConfig(utils.DB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loyalty configuration not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load loyalty configuration"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// UpdateLoyaltyConfig replaces the program numbers on the singleton
// row. Takes effect for operations started after the write.
func UpdateLoyaltyConfig(c *gin.Context) {
	var input struct {
		PointsPerKD           float64 `json:"points_per_kd" binding:"required"`
		ConversionRate        float64 `json:"conversion_rate" binding:"required"`
		MaxRedeemPercentage   float64 `json:"max_redeem_percentage" binding:"required"`
		WelcomeBonusPoints    int     `json:"welcome_bonus_points"`
		ReferrerBonusPoints   int     `json:"referrer_bonus_points"`
		ReferredWelcomePoints int     `json:"referred_welcome_points"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loyalty configuration values"})
		return
	}

	cfg, err := loyaltysvc.GetConfig(utils.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load loyalty configuration"})
		return
	}

	cfg.PointsPerKD = input.PointsPerKD
	cfg.ConversionRate = input.ConversionRate
	cfg.MaxRedeemPercentage = input.MaxRedeemPercentage
	cfg.WelcomeBonusPoints = input.WelcomeBonusPoints
	cfg.ReferrerBonusPoints = input.ReferrerBonusPoints
	cfg.ReferredWelcomePoints = input.ReferredWelcomePoints

	if err := utils.DB.Save(&cfg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update loyalty configuration"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}
