package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Init sets the secret used to verify tokens. Must run before serving.
func Init(secret string) {
	jwtSecret = []byte(secret)
}

// AuthMiddleware validates JWT token and extracts user details
func AuthMiddleware(c *fiber.Ctx) error {
	// Get the Authorization header
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Missing token"})
	}

	// Ensure it's a Bearer token
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid token format"})
	}

	// Parse JWT token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid token"})
	}

	// Extract claims
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid token claims"})
	}

	// Retrieve user ID and role from token
	userID, userExists := claims["user_id"].(string)
	role, roleExists := claims["role"].(string)

	if !userExists || !roleExists {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid token payload"})
	}

	// Store user info in context for next handlers
	c.Locals("user_id", userID)
	c.Locals("role", role)

	return c.Next()
}
