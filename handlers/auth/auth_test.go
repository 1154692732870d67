package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	// Use a per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.LoyaltyTransaction{},
		&models.Referral{},
		&models.LoyaltyConfig{},
	))
	require.NoError(t, db.Create(&models.LoyaltyConfig{
		PointsPerKD:           35,
		ConversionRate:        0.004,
		MaxRedeemPercentage:   0.15,
		WelcomeBonusPoints:    100,
		ReferrerBonusPoints:   400,
		ReferredWelcomePoints: 200,
	}).Error)
	utils.SetDatabase(db)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/register", Register)
	r.POST("/login", Login)
	return r, db
}

func httpDo(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, db := setupRouter(t)

	w := httpDo(r, "POST", "/register", gin.H{
		"name":     "Fatima",
		"email":    "fatima@test.local",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.User.ReferralCode)

	// Welcome bonus is granted immediately and goes through the ledger.
	var fresh models.User
	require.NoError(t, db.First(&fresh, resp.User.ID).Error)
	require.Equal(t, 100, fresh.LoyaltyPoints)

	var entry models.LoyaltyTransaction
	require.NoError(t, db.Where("customer_id = ?", fresh.ID).First(&entry).Error)
	require.Equal(t, models.TransactionWelcomeBonus, entry.Type)
	require.Equal(t, 100, entry.PointsChange)

	w = httpDo(r, "POST", "/login", gin.H{"email": "fatima@test.local", "password": "supersecret"})
	require.Equal(t, http.StatusOK, w.Code)

	w = httpDo(r, "POST", "/login", gin.H{"email": "fatima@test.local", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterWithReferralCode(t *testing.T) {
	r, db := setupRouter(t)

	w := httpDo(r, "POST", "/register", gin.H{
		"name":     "Referrer",
		"email":    "referrer@test.local",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var referrerResp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &referrerResp))

	w = httpDo(r, "POST", "/register", gin.H{
		"name":          "Referred",
		"email":         "referred@test.local",
		"password":      "supersecret",
		"referral_code": referrerResp.User.ReferralCode,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var referredResp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &referredResp))
	require.Equal(t, referrerResp.User.ID, *referredResp.User.ReferredByID)

	var referral models.Referral
	require.NoError(t, db.Where("referred_customer_id = ?", referredResp.User.ID).First(&referral).Error)
	require.Equal(t, models.ReferralStatusPending, referral.Status)
	require.Equal(t, referrerResp.User.ID, referral.ReferrerID)
}

func TestRegisterRejectsUnknownReferralCode(t *testing.T) {
	r, _ := setupRouter(t)

	w := httpDo(r, "POST", "/register", gin.H{
		"name":          "Nobody",
		"email":         "nobody@test.local",
		"password":      "supersecret",
		"referral_code": "DOESNOTEXIST",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginBlockedAccount(t *testing.T) {
	r, db := setupRouter(t)

	w := httpDo(r, "POST", "/register", gin.H{
		"name":     "Blocked",
		"email":    "blocked@test.local",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "blocked@test.local").
		Update("status", models.UserStatusBlocked).Error)

	w = httpDo(r, "POST", "/login", gin.H{"email": "blocked@test.local", "password": "supersecret"})
	require.Equal(t, http.StatusForbidden, w.Code)
}
