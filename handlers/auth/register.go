package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/loyalty"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

// generateReferralCode produces a short, shareable, unique code.
func generateReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// Register creates a customer account. A valid referral code links the
// new customer to the referrer through a pending Referral row; the
// bonuses are only paid out once the new customer completes their
// first order. The welcome bonus, if configured, is granted right away.
func Register(c *gin.Context) {
	var input struct {
		Name         string `json:"name" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		PhoneNumber  string `json:"phone_number"`
		Password     string `json:"password" binding:"required,min=8"`
		ReferralCode string `json:"referral_code"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please check the registration fields."})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process password"})
		return
	}

	var referrer *models.User
	if input.ReferralCode != "" {
		var ref models.User
		err := utils.DB.Where("referral_code = ?", input.ReferralCode).First(&ref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid referral code", "code": "invalid_referral_code"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed. Please try again later."})
			return
		}
		referrer = &ref
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		Password:     string(hashed),
		Role:         models.RoleCustomer,
		Status:       models.UserStatusActive,
		ReferralCode: generateReferralCode(),
	}
	if referrer != nil {
		user.ReferredByID = &referrer.ID
	}

	err = utils.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if referrer != nil {
			referral := models.Referral{
				ReferrerID:         referrer.ID,
				ReferredCustomerID: user.ID,
				Status:             models.ReferralStatusPending,
			}
			if err := tx.Create(&referral).Error; err != nil {
				return err
			}
		}

		cfg, err := loyalty.GetConfig(tx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No loyalty config seeded yet; skip the welcome bonus.
				return nil
			}
			return err
		}
		if cfg.WelcomeBonusPoints > 0 {
			_, err := loyalty.ApplyPointsChange(tx, user.ID, cfg.WelcomeBonusPoints,
				models.TransactionWelcomeBonus, nil, "Welcome bonus", "system")
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("Registration failed for %s: %v", input.Email, err)
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email may already exist."})
		return
	}

	accessToken, err := utils.GenerateAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful.",
		"token":   accessToken,
		"user":    user,
	})
}
