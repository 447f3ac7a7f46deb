package services

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	userCollection        *mongo.Collection
	appointmentCollection *mongo.Collection

	jwtSecret     []byte
	jwtTTL        = 4 * time.Hour
	loc           = time.UTC
	maxPeriodDays = 365
)

var validate = validator.New()

// Sentinel errors the HTTP layer maps to status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPeriodTooLarge     = errors.New("period exceeds the maximum allowed window")
)

// Options carries the runtime configuration the services need.
type Options struct {
	JWTSecret     string
	JWTTTL        time.Duration
	Location      *time.Location
	MaxPeriodDays int
}

// Init wires the services to their collections and configuration.
// A nil database is tolerated so the pure helpers stay usable from tests.
func Init(database *mongo.Database, opts Options) {
	if database != nil {
		userCollection = database.Collection("users")
		appointmentCollection = database.Collection("appointments")
	}
	jwtSecret = []byte(opts.JWTSecret)
	if opts.JWTTTL > 0 {
		jwtTTL = opts.JWTTTL
	}
	if opts.Location != nil {
		loc = opts.Location
	}
	if opts.MaxPeriodDays > 0 {
		maxPeriodDays = opts.MaxPeriodDays
	}
}
