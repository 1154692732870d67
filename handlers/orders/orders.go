package orders

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/loyalty"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	ordersvc "github.com/fawzybadr22-svg/ghasla-style-web-sub000/orders"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"
)

func currentUser(c *gin.Context) (models.User, bool) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return models.User{}, false
	}
	return userInterface.(models.User), true
}

func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, false
	}
	return uint(id), true
}

// respondOrderError maps domain errors onto HTTP responses with a
// machine-readable code. Unexpected errors become a generic 500.
func respondOrderError(c *gin.Context, err error) {
	var invalid *ordersvc.InvalidTransitionError

	switch {
	case errors.Is(err, ordersvc.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "code": "order_not_found"})
	case errors.Is(err, ordersvc.ErrPackageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Service package not found", "code": "package_not_found"})
	case errors.Is(err, loyalty.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found", "code": "customer_not_found"})
	case errors.Is(err, ordersvc.ErrCustomerBlocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "Customer account is blocked", "code": "customer_blocked"})
	case errors.Is(err, ordersvc.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to modify this order", "code": "not_authorized"})
	case errors.Is(err, loyalty.ErrInsufficientPoints):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Not enough loyalty points", "code": "insufficient_points"})
	case errors.Is(err, ordersvc.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already completed", "code": "already_completed"})
	case errors.Is(err, ordersvc.ErrDelegateCapReached):
		c.JSON(http.StatusConflict, gin.H{"error": "Active order limit reached", "code": "delegate_cap_reached"})
	case errors.As(err, &invalid):
		c.JSON(http.StatusConflict, gin.H{"error": invalid.Error(), "code": "invalid_transition"})
	default:
		log.Printf("Order operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again later."})
	}
}

// CreateOrder books a wash for the logged-in customer, optionally
// redeeming loyalty points against the package price.
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		ServicePackageID uint   `json:"service_package_id" binding:"required"`
		CarType          string `json:"car_type"`
		RedeemPoints     int    `json:"redeem_points"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please select a service package."})
		return
	}

	cfg, err := loyalty.GetConfig(utils.DB)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	order, err := ordersvc.Create(utils.DB, ordersvc.CreateInput{
		CustomerID:       user.ID,
		ServicePackageID: input.ServicePackageID,
		CarType:          input.CarType,
		RequestedPoints:  input.RedeemPoints,
	}, cfg)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func GetMyOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var list []models.Order
	if err := utils.DB.Where("customer_id = ?", user.ID).Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}

	var order models.Order
	if err := utils.DB.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "code": "order_not_found"})
		return
	}

	if !user.IsAdmin() && order.CustomerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this order", "code": "not_authorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder is shared by customers (own orders) and admins.
func CancelOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	// The body is optional; a missing reason is recorded as empty.
	_ = c.ShouldBindJSON(&input)

	order, err := ordersvc.Cancel(utils.DB, id, user, input.Reason)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetDelegateOrders lists the unassigned pending pool together with
// the delegate's own active orders.
func GetDelegateOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var pending []models.Order
	if err := utils.DB.
		Where("status = ? AND assigned_driver_id IS NULL", models.OrderStatusPending).
		Order("created_at ASC").
		Find(&pending).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	var active []models.Order
	if err := utils.DB.
		Where("assigned_driver_id = ? AND status IN ?", user.ID, []string{
			models.OrderStatusAssigned,
			models.OrderStatusOnTheWay,
			models.OrderStatusInProgress,
		}).
		Order("assigned_at ASC").
		Find(&active).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": pending, "active": active})
}

func AcceptOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := ordersvc.Accept(utils.DB, id, user)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus progresses an assigned order. Cancellation with a
// reason also comes through here from the driver app.
func UpdateOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := orderID(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please provide a status."})
		return
	}

	cfg, err := loyalty.GetConfig(utils.DB)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	var order *models.Order
	if input.Status == models.OrderStatusCancelled {
		order, err = ordersvc.Cancel(utils.DB, id, user, input.Reason)
	} else {
		order, err = ordersvc.Transition(utils.DB, id, input.Status, user, cfg)
	}
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetAllOrders is the admin dashboard listing with optional status
// filter and pagination.
func GetAllOrders(c *gin.Context) {
	page := 1
	pageSize := 20
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("pageSize"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 200 {
			pageSize = v
		}
	}

	q := utils.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	var list []models.Order
	if err := q.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list, "page": page, "pageSize": pageSize, "total": total})
}
