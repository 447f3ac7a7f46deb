package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Role is fixed at registration and never changes afterwards.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Rating is the accumulated review score of a doctor.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name" validate:"required,min=2,max=50"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	// Doctor-only fields.
	Specialization  string  `bson:"specialization,omitempty" json:"specialization,omitempty"`
	ConsultationFee float64 `bson:"consultationFee,omitempty" json:"consultationFee,omitempty"`
	Rating          *Rating `bson:"rating,omitempty" json:"rating,omitempty"`

	ResetPasswordToken   string    `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires time.Time `bson:"resetPasswordExpires,omitempty" json:"-"`
}

// IsValidRole reports whether role is one a user can register with.
// Admin accounts are provisioned out of band, never through registration.
func IsValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor
}
