package orders

import (
	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes mounts the order endpoints available to a
// logged-in customer.
func RegisterCustomerRoutes(r *gin.RouterGroup) {
	r.POST("/orders", CreateOrder)
	r.GET("/orders", GetMyOrders)
	r.GET("/orders/:id", GetOrder)
	r.PATCH("/orders/:id/cancel", CancelOrder)
}

// RegisterDelegateRoutes mounts the driver-facing endpoints.
func RegisterDelegateRoutes(r *gin.RouterGroup) {
	r.GET("/orders", GetDelegateOrders)
	r.POST("/orders/:id/accept", AcceptOrder)
	r.PATCH("/orders/:id/status", UpdateOrderStatus)
}

// RegisterAdminRoutes mounts the dashboard endpoints.
func RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/orders", GetAllOrders)
	r.PATCH("/orders/:id/cancel", CancelOrder)
}
