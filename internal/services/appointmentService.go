package services

import (
	"context"
	"errors"
	"time"

	"github.com/arzan03/MediBook/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Booking workflow: the only writer of the appointments collection.

// ListDoctors returns active doctors, optionally filtered by
// specialization, best rated first.
func ListDoctors(ctx context.Context, specialization string) ([]models.User, error) {
	filter := bson.M{"role": models.RoleDoctor, "isActive": true}
	if specialization != "" {
		filter["specialization"] = specialization
	}

	opts := options.Find().
		SetProjection(userProjection).
		SetSort(bson.M{"rating.average": -1})

	cursor, err := userCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	doctors := []models.User{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// BookInput is the booking payload. The fee is never client-supplied;
// it is copied from the doctor's profile at booking time.
type BookInput struct {
	DoctorID        string    `json:"doctorId" validate:"required"`
	AppointmentDate time.Time `json:"appointmentDate" validate:"required"`
	Reason          string    `json:"reason" validate:"omitempty,max=500"`
}

// BookAppointment creates a scheduled appointment for the patient.
func BookAppointment(ctx context.Context, patientID primitive.ObjectID, input BookInput) (models.Appointment, error) {
	if err := validate.Struct(input); err != nil {
		return models.Appointment{}, err
	}

	doctorID, err := primitive.ObjectIDFromHex(input.DoctorID)
	if err != nil {
		return models.Appointment{}, errors.New("invalid doctor id")
	}
	if input.AppointmentDate.Before(time.Now()) {
		return models.Appointment{}, errors.New("appointment date must be in the future")
	}

	var doctor models.User
	err = userCollection.FindOne(ctx, bson.M{
		"_id":      doctorID,
		"role":     models.RoleDoctor,
		"isActive": true,
	}).Decode(&doctor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Appointment{}, errors.New("doctor not found")
	}
	if err != nil {
		return models.Appointment{}, err
	}

	appointment := models.Appointment{
		ID:              primitive.NewObjectID(),
		Doctor:          doctorID,
		Patient:         patientID,
		AppointmentDate: input.AppointmentDate,
		Status:          models.StatusScheduled,
		Reason:          input.Reason,
		ConsultationFee: doctor.ConsultationFee,
		CreatedAt:       time.Now(),
	}
	_, err = appointmentCollection.InsertOne(ctx, appointment)
	return appointment, err
}

// ListAppointments returns the appointments visible to the caller:
// their own side for patients and doctors, everything for admins.
func ListAppointments(ctx context.Context, userID primitive.ObjectID, role string) ([]models.Appointment, error) {
	filter := bson.M{}
	switch role {
	case models.RolePatient:
		filter["patient"] = userID
	case models.RoleDoctor:
		filter["doctor"] = userID
	}

	opts := options.Find().SetSort(bson.M{"appointmentDate": -1})
	cursor, err := appointmentCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appointments := []models.Appointment{}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func getAppointment(ctx context.Context, id primitive.ObjectID) (models.Appointment, error) {
	var appointment models.Appointment
	err := appointmentCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Appointment{}, ErrNotFound
	}
	return appointment, err
}

func setAppointmentStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var appointment models.Appointment
	err := appointmentCollection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&appointment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Appointment{}, ErrNotFound
	}
	return appointment, err
}

// CancelAppointment cancels an appointment on behalf of its patient, its
// doctor or an admin. Completed and already-cancelled appointments stay
// as they are.
func CancelAppointment(ctx context.Context, id, requester primitive.ObjectID, role string) (models.Appointment, error) {
	appointment, err := getAppointment(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	if role != models.RoleAdmin && appointment.Patient != requester && appointment.Doctor != requester {
		return models.Appointment{}, ErrForbidden
	}
	if appointment.Status == models.StatusCompleted || appointment.Status == models.StatusCancelled {
		return models.Appointment{}, errors.New("appointment is already " + appointment.Status)
	}
	return setAppointmentStatus(ctx, id, models.StatusCancelled)
}

// CompleteAppointment marks an appointment completed. Only the
// appointment's doctor or an admin may do this.
func CompleteAppointment(ctx context.Context, id, requester primitive.ObjectID, role string) (models.Appointment, error) {
	appointment, err := getAppointment(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	if role != models.RoleAdmin && appointment.Doctor != requester {
		return models.Appointment{}, ErrForbidden
	}
	if appointment.Status == models.StatusCancelled {
		return models.Appointment{}, errors.New("cancelled appointments cannot be completed")
	}
	return setAppointmentStatus(ctx, id, models.StatusCompleted)
}
