package main

import (
	"log"
	"os"
	"time"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/handlers/auth"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/handlers/customers"
	loyaltyhandlers "github.com/fawzybadr22-svg/ghasla-style-web-sub000/handlers/loyalty"
	orderhandlers "github.com/fawzybadr22-svg/ghasla-style-web-sub000/handlers/orders"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/handlers/referrals"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/migrations"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/seed"
	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://ghasla.app", "https://admin.ghasla.app"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	utils.ConnectDatabase()

	utils.DB.AutoMigrate(&models.User{})
	migrations.MigrateOrders()
	migrations.MigrateLoyalty()

	// Seed Initial Data
	if err := seed.SeedLoyaltyConfig(); err != nil {
		log.Fatalf("Failed to seed loyalty configuration: %v", err)
	}
	if err := seed.SeedServicePackages(); err != nil {
		log.Fatalf("Failed to seed service packages: %v", err)
	}

	// Public routes
	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)

	// Customer routes
	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		orderhandlers.RegisterCustomerRoutes(protected)
		protected.GET("/loyalty/history", loyaltyhandlers.GetLoyaltyHistory)
		protected.GET("/referrals", referrals.GetUserReferrals)
	}

	// Delegate (driver) routes
	delegate := r.Group("/delegate")
	delegate.Use(auth.AuthMiddleware(), auth.RequireRoles(models.RoleDelegate))
	{
		orderhandlers.RegisterDelegateRoutes(delegate)
	}

	// Admin dashboard routes
	admin := r.Group("/admin")
	admin.Use(auth.AuthMiddleware(), auth.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))
	{
		orderhandlers.RegisterAdminRoutes(admin)
		admin.GET("/customers/:id", customers.GetCustomer)
		admin.PATCH("/customers/:id/block", customers.BlockCustomer)
		admin.POST("/customers/:id/points", loyaltyhandlers.AdjustPoints)
		admin.GET("/loyalty-config", loyaltyhandlers.GetLoyaltyConfig)
		admin.PUT("/loyalty-config", loyaltyhandlers.UpdateLoyaltyConfig)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
