package customers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

func GetCustomer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	var user models.User
	if err := utils.DB.First(&user, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found", "code": "customer_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": user})
}

// BlockCustomer soft-deletes an account: the row stays (orders and
// ledger history reference it) but the user can no longer log in, and
// any elevated role is downgraded.
func BlockCustomer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer id"})
		return
	}

	var user models.User
	if err := utils.DB.First(&user, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found", "code": "customer_not_found"})
		return
	}

	updates := map[string]interface{}{
		"status": models.UserStatusBlocked,
		"role":   models.RoleCustomer,
	}
	if err := utils.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to block customer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer blocked successfully"})
}
