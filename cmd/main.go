package main

import (
	"log"
	"time"

	"github.com/arzan03/MediBook/internal/cache"
	"github.com/arzan03/MediBook/internal/config"
	"github.com/arzan03/MediBook/internal/db"
	"github.com/arzan03/MediBook/internal/handlers"
	"github.com/arzan03/MediBook/internal/middleware"
	"github.com/arzan03/MediBook/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	location, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid TIMEZONE: %v", err)
	}

	// Connect to MongoDB
	mongoDB := db.ConnectMongoDB(cfg.MongoURI, cfg.MongoDB)

	// Redis is optional: without it the dashboard is recomputed per request.
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Redis unavailable (%v). Continuing without cache.", err)
			cacheClient = nil
		} else {
			log.Println("Connected to Redis cache")
		}
	}

	services.Init(mongoDB, services.Options{
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        time.Duration(cfg.JWTTTLHours) * time.Hour,
		Location:      location,
		MaxPeriodDays: cfg.MaxPeriodDays,
	})
	middleware.Init(cfg.JWTSecret)
	handlers.InitAdminHandler(cacheClient, time.Duration(cfg.DashboardCacheTTL)*time.Second)

	// Initialize Fiber
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	authLimiter := middleware.NewRateLimiter(rate.Limit(cfg.AuthRateRPS), cfg.AuthRateBurst)

	// Auth Routes
	auth := app.Group("/auth", authLimiter.Middleware())
	auth.Post("/register", handlers.RegisterHandler)
	auth.Post("/login", handlers.LoginHandler)
	auth.Post("/forgot-password", handlers.ForgotPasswordHandler)
	auth.Put("/reset-password/:resettoken", handlers.ResetPasswordHandler)
	auth.Get("/me", middleware.AuthMiddleware, handlers.MeHandler)
	auth.Put("/update-profile", middleware.AuthMiddleware, handlers.UpdateProfileHandler)
	auth.Put("/update-password", middleware.AuthMiddleware, handlers.UpdatePasswordHandler)
	auth.Post("/logout", middleware.AuthMiddleware, handlers.LogoutHandler)

	api := app.Group("/api", middleware.AuthMiddleware)

	// Admin Routes
	admin := api.Group("/admin", middleware.AdminMiddleware)
	admin.Get("/dashboard", handlers.GetDashboardStats)
	admin.Get("/analytics", handlers.GetSystemAnalytics)
	admin.Get("/users", handlers.ListUsers)
	admin.Get("/users/:id", handlers.GetUserByID)
	admin.Put("/users/:id/status", handlers.UpdateUserStatus)
	admin.Delete("/users/:id", handlers.DeleteUser)

	// Booking Routes
	api.Get("/doctors", handlers.ListDoctors)
	api.Post("/appointments", handlers.BookAppointment)
	api.Get("/appointments", handlers.ListAppointments)
	api.Put("/appointments/:id/cancel", handlers.CancelAppointment)
	api.Put("/appointments/:id/complete", handlers.CompleteAppointment)

	// Start server
	log.Fatal(app.Listen(":" + cfg.Port))
}
