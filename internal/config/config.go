package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	MongoURI          string
	MongoDB           string
	JWTSecret         string
	JWTTTLHours       int
	RedisURL          string
	Timezone          string // IANA zone name for all day-boundary math
	MaxPeriodDays     int    // upper bound on the analytics lookback window
	DashboardCacheTTL int    // seconds; 0 disables the dashboard cache
	AuthRateRPS       float64
	AuthRateBurst     int
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017/medibook"),
		MongoDB:           getEnv("MONGO_DB", "medibook"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTTTLHours:       getEnvInt("JWT_TTL_HOURS", 4),
		RedisURL:          getEnv("REDIS_URL", ""),
		Timezone:          getEnv("TIMEZONE", "UTC"),
		MaxPeriodDays:     getEnvInt("ANALYTICS_MAX_PERIOD_DAYS", 365),
		DashboardCacheTTL: getEnvInt("DASHBOARD_CACHE_TTL_SECONDS", 60),
		AuthRateRPS:       getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		AuthRateBurst:     getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
	}
}

// Location resolves Timezone. The same zone name is evaluated
// server-side by the database, so machine-relative names like "Local"
// that only Go understands are rejected here instead of failing at
// query time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return nil, fmt.Errorf("TIMEZONE must be an IANA zone name, got %q", c.Timezone)
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
