package handlers

import (
	"errors"
	"log"

	"github.com/arzan03/MediBook/internal/models"
	"github.com/arzan03/MediBook/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListDoctors serves the doctor directory used when booking.
func ListDoctors(c *fiber.Ctx) error {
	doctors, err := services.ListDoctors(c.Context(), c.Query("specialization"))
	if err != nil {
		log.Printf("list doctors error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}
	return c.JSON(fiber.Map{"success": true, "data": doctors})
}

// BookAppointment creates an appointment for the authenticated patient.
func BookAppointment(c *fiber.Ctx) error {
	if role, _ := c.Locals("role").(string); role != models.RolePatient {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Only patients can book appointments"})
	}
	patientID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid token payload"})
	}

	var request services.BookInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	appointment, err := services.BookAppointment(c.Context(), patientID, request)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	invalidateDashboard(c)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": appointment})
}

// ListAppointments returns the caller's appointments.
func ListAppointments(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid token payload"})
	}
	role, _ := c.Locals("role").(string)

	appointments, err := services.ListAppointments(c.Context(), userID, role)
	if err != nil {
		log.Printf("list appointments error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(fiber.Map{"success": true, "data": appointments})
}

func appointmentStatusChange(c *fiber.Ctx, change func(ctx *fiber.Ctx, id, requester primitive.ObjectID, role string) (models.Appointment, error)) error {
	appointmentID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid appointment ID format"})
	}
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid token payload"})
	}
	role, _ := c.Locals("role").(string)

	appointment, err := change(c, appointmentID, userID, role)
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Appointment not found"})
	}
	if errors.Is(err, services.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Not allowed to modify this appointment"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	invalidateDashboard(c)
	return c.JSON(fiber.Map{"success": true, "data": appointment})
}

// CancelAppointment cancels an appointment on behalf of its patient,
// its doctor or an admin.
func CancelAppointment(c *fiber.Ctx) error {
	return appointmentStatusChange(c, func(ctx *fiber.Ctx, id, requester primitive.ObjectID, role string) (models.Appointment, error) {
		return services.CancelAppointment(ctx.Context(), id, requester, role)
	})
}

// CompleteAppointment marks an appointment completed (doctor or admin).
func CompleteAppointment(c *fiber.Ctx) error {
	return appointmentStatusChange(c, func(ctx *fiber.Ctx, id, requester primitive.ObjectID, role string) (models.Appointment, error) {
		return services.CompleteAppointment(ctx.Context(), id, requester, role)
	})
}
