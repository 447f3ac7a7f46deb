package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/arzan03/MediBook/internal/cache"
	"github.com/arzan03/MediBook/internal/models"
	"github.com/arzan03/MediBook/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dashboardCachePrefix = "admin:dashboard"

var (
	dashboardCache    cache.Cache
	dashboardCacheTTL time.Duration
)

// InitAdminHandler wires the optional dashboard cache. A nil cache or a
// zero TTL disables caching.
func InitAdminHandler(c cache.Cache, ttl time.Duration) {
	dashboardCache = c
	dashboardCacheTTL = ttl
}

// dashboardCacheKey scopes the cached payload to the current calendar
// day, so a cached entry can never serve yesterday's windows after a
// day, week or month boundary.
func dashboardCacheKey() string {
	return dashboardCachePrefix + ":" + services.CurrentDay(time.Now())
}

// GetDashboardStats serves GET /api/admin/dashboard.
func GetDashboardStats(c *fiber.Ctx) error {
	ctx := c.Context()

	if dashboardCache != nil && dashboardCacheTTL > 0 {
		var cached models.DashboardStats
		if err := dashboardCache.GetJSON(ctx, dashboardCacheKey(), &cached); err == nil {
			return c.JSON(fiber.Map{"success": true, "data": cached})
		}
	}

	stats, err := services.DashboardStats(ctx, time.Now())
	if err != nil {
		log.Printf("get dashboard stats error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	if dashboardCache != nil && dashboardCacheTTL > 0 {
		if err := dashboardCache.SetJSON(ctx, dashboardCacheKey(), stats, dashboardCacheTTL); err != nil {
			log.Printf("dashboard cache write failed: %v", err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// GetSystemAnalytics serves GET /api/admin/analytics?period=<days>.
func GetSystemAnalytics(c *fiber.Ctx) error {
	period := services.ParsePeriod(c.Query("period"))

	analytics, err := services.Analytics(c.Context(), time.Now(), period)
	if errors.Is(err, services.ErrPeriodTooLarge) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if err != nil {
		log.Printf("get analytics error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(fiber.Map{"success": true, "data": analytics})
}

// ListUsers serves the admin user directory with search, role and status
// filters plus pagination.
func ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	list, err := services.ListUsers(c.Context(), services.UserListOptions{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		log.Printf("list users error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(fiber.Map{"success": true, "data": list})
}

// GetUserByID serves a single user for the admin detail view.
func GetUserByID(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid user ID format"})
	}

	user, err := services.GetUserByID(c.Context(), userID)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}
	if err != nil {
		log.Printf("get user error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

// UpdateUserStatus activates or deactivates an account.
func UpdateUserStatus(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid user ID format"})
	}

	var request struct {
		IsActive *bool `json:"isActive"`
	}
	if err := c.BodyParser(&request); err != nil || request.IsActive == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "isActive is required"})
	}

	user, err := services.SetUserActive(c.Context(), userID, *request.IsActive)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}
	if err != nil {
		log.Printf("update user status error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	invalidateDashboard(c)
	return c.JSON(fiber.Map{"success": true, "data": user})
}

// DeleteUser removes a non-admin account.
func DeleteUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid user ID format"})
	}

	err = services.DeleteUser(c.Context(), userID)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}
	if err != nil {
		log.Printf("delete user error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	invalidateDashboard(c)
	return c.JSON(fiber.Map{"success": true, "message": "User deleted successfully"})
}

// invalidateDashboard drops the cached dashboard after a mutation that
// changes its counters.
func invalidateDashboard(c *fiber.Ctx) {
	if dashboardCache == nil {
		return
	}
	if err := dashboardCache.Delete(c.Context(), dashboardCacheKey()); err != nil {
		log.Printf("dashboard cache invalidation failed: %v", err)
	}
}
