package utils

import (
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"

	"github.com/fawzybadr22-svg/ghasla-style-web-sub000/models"
)

var JwtSecret []byte

func init() {
	// Load the .env file
	if err := godotenv.Load(); err != nil {
		// It's okay if the .env file isn't found; environment variables may be set elsewhere
		log.Println("No .env file found or error loading .env file:", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("JWT_SECRET is not set; using an insecure development secret")
		secret = "dev-secret-change-me"
	}

	JwtSecret = []byte(secret)
}

// GenerateAccessToken creates a new JWT access token carrying the
// user's role capabilities as custom claims, mirroring the claims shape
// the mobile apps expect (admin / super_admin / delegate booleans).
func GenerateAccessToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     user.ID,
		"role":        user.Role,
		"admin":       user.Role == models.RoleAdmin || user.Role == models.RoleSuperAdmin,
		"super_admin": user.Role == models.RoleSuperAdmin,
		"delegate":    user.Role == models.RoleDelegate,
		"exp":         time.Now().Add(72 * time.Hour).Unix(),
	})

	return token.SignedString(JwtSecret)
}
