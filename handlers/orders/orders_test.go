package orders

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

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/handlers/auth"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

// setupRouter wires the same route groups main.go mounts.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	// Use a per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ServicePackage{},
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

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	RegisterCustomerRoutes(protected)

	delegate := r.Group("/delegate")
	delegate.Use(auth.AuthMiddleware(), auth.RequireRoles(models.RoleDelegate))
	RegisterDelegateRoutes(delegate)

	admin := r.Group("/admin")
	admin.Use(auth.AuthMiddleware(), auth.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	RegisterAdminRoutes(admin)

	return r, db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, points int) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:          "Test User",
		Email:         email,
		Password:      "hashed",
		Role:          role,
		Status:        models.UserStatusActive,
		LoyaltyPoints: points,
		ReferralCode:  fmt.Sprintf("REF-%s-%s", t.Name(), email),
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := utils.GenerateAccessToken(user)
	require.NoError(t, err)
	return user, token
}

func seedPackage(t *testing.T, db *gorm.DB, name string, price float64) models.ServicePackage {
	t.Helper()
	pkg := models.ServicePackage{Name: name, PriceKD: price, DurationMinutes: 45, Active: true}
	require.NoError(t, db.Create(&pkg).Error)
	return pkg
}

func httpDo(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type orderResponse struct {
	Order models.Order `json:"order"`
}

func TestCreateOrderWithRedemption(t *testing.T) {
	r, db := setupRouter(t)
	_, token := seedUser(t, db, "customer@test.local", models.RoleCustomer, 1000)
	pkg := seedPackage(t, db, "Classic Wash", 7.000)

	w := httpDo(r, "POST", "/orders", token, gin.H{
		"service_package_id": pkg.ID,
		"car_type":           "suv",
		"redeem_points":      500,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, models.OrderStatusPending, resp.Order.Status)
	require.InDelta(t, 1.050, resp.Order.DiscountApplied, 1e-9)
	require.InDelta(t, 5.950, resp.Order.PriceKD, 1e-9)
	require.Equal(t, 500, resp.Order.LoyaltyPointsRedeemed)
}

func TestCreateOrderInsufficientPoints(t *testing.T) {
	r, db := setupRouter(t)
	_, token := seedUser(t, db, "poor@test.local", models.RoleCustomer, 100)
	pkg := seedPackage(t, db, "Classic Wash", 7.000)

	w := httpDo(r, "POST", "/orders", token, gin.H{
		"service_package_id": pkg.ID,
		"redeem_points":      101,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "insufficient_points", body["code"])
}

func TestDelegateFlowOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	customer, customerToken := seedUser(t, db, "owner@test.local", models.RoleCustomer, 0)
	_, driverToken := seedUser(t, db, "driver@test.local", models.RoleDelegate, 0)
	pkg := seedPackage(t, db, "Classic Wash", 7.000)

	w := httpDo(r, "POST", "/orders", customerToken, gin.H{"service_package_id": pkg.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Order.ID

	// Customers cannot reach the delegate surface.
	w = httpDo(r, "POST", fmt.Sprintf("/delegate/orders/%d/accept", id), customerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httpDo(r, "POST", fmt.Sprintf("/delegate/orders/%d/accept", id), driverToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, status := range []string{models.OrderStatusOnTheWay, models.OrderStatusInProgress, models.OrderStatusCompleted} {
		w = httpDo(r, "PATCH", fmt.Sprintf("/delegate/orders/%d/status", id), driverToken, gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	var final orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &final))
	require.Equal(t, models.OrderStatusCompleted, final.Order.Status)
	require.Equal(t, 245, final.Order.LoyaltyPointsEarned)

	var fresh models.User
	require.NoError(t, db.First(&fresh, customer.ID).Error)
	require.Equal(t, 245, fresh.LoyaltyPoints)

	// A duplicate completion PATCH is rejected, not double-awarded.
	w = httpDo(r, "PATCH", fmt.Sprintf("/delegate/orders/%d/status", id), driverToken, gin.H{"status": models.OrderStatusCompleted})
	require.Equal(t, http.StatusConflict, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "already_completed", body["code"])
}

func TestCustomerCannotSeeOthersOrder(t *testing.T) {
	r, db := setupRouter(t)
	_, ownerToken := seedUser(t, db, "owner2@test.local", models.RoleCustomer, 0)
	_, otherToken := seedUser(t, db, "other2@test.local", models.RoleCustomer, 0)
	pkg := seedPackage(t, db, "Classic Wash", 7.000)

	w := httpDo(r, "POST", "/orders", ownerToken, gin.H{"service_package_id": pkg.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httpDo(r, "GET", fmt.Sprintf("/orders/%d", created.Order.ID), otherToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httpDo(r, "GET", fmt.Sprintf("/orders/%d", created.Order.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOrderListingAndRoleGate(t *testing.T) {
	r, db := setupRouter(t)
	_, customerToken := seedUser(t, db, "cust3@test.local", models.RoleCustomer, 0)
	_, adminToken := seedUser(t, db, "admin3@test.local", models.RoleAdmin, 0)
	pkg := seedPackage(t, db, "Classic Wash", 7.000)

	for i := 0; i < 3; i++ {
		w := httpDo(r, "POST", "/orders", customerToken, gin.H{"service_package_id": pkg.ID})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := httpDo(r, "GET", "/admin/orders", customerToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httpDo(r, "GET", "/admin/orders?status=pending", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Orders []models.Order `json:"orders"`
		Total  int64          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, int64(3), resp.Total)
	require.Len(t, resp.Orders, 3)
}

func TestCancelOverHTTP(t *testing.T) {
	r, db := setupRouter(t)
	_, customerToken := seedUser(t, db, "cust4@test.local", models.RoleCustomer, 0)
	pkg := seedPackage(t, db, "Classic Wash", 7.000)

	w := httpDo(r, "POST", "/orders", customerToken, gin.H{"service_package_id": pkg.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httpDo(r, "PATCH", fmt.Sprintf("/orders/%d/cancel", created.Order.ID), customerToken, gin.H{"reason": "plans changed"})
	require.Equal(t, http.StatusOK, w.Code)
	var cancelled orderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	require.Equal(t, models.OrderStatusCancelled, cancelled.Order.Status)
	require.Equal(t, "plans changed", cancelled.Order.CancelReason)
}
