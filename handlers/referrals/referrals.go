package referrals

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

// GetUserReferrals lists the referrals the logged-in customer has made,
// together with their own shareable code.
func GetUserReferrals(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	var referrals []models.Referral
	if err := utils.DB.Where("referrer_id = ?", user.ID).Order("created_at DESC").Find(&referrals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code": user.ReferralCode,
		"referrals":     referrals,
	})
}
