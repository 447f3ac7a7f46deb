package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses. The set is open: documents written by older
// versions may carry values outside this list and are still counted in
// totals, just not in the per-status breakdowns.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

type Appointment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Doctor          primitive.ObjectID `bson:"doctor" json:"doctor"`
	Patient         primitive.ObjectID `bson:"patient" json:"patient"`
	AppointmentDate time.Time          `bson:"appointmentDate" json:"appointmentDate"`
	Status          string             `bson:"status" json:"status"`
	Reason          string             `bson:"reason,omitempty" json:"reason,omitempty"`
	ConsultationFee float64            `bson:"consultationFee" json:"consultationFee"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
