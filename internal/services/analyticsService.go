package services

import (
	"context"
	"strconv"
	"time"

	"github.com/arzan03/MediBook/internal/models"
	"github.com/arzan03/MediBook/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const defaultPeriodDays = 30

// ParsePeriod interprets the period query parameter as a number of
// lookback days. Missing, malformed or negative input falls back to the
// default rather than failing.
func ParsePeriod(raw string) int {
	if raw == "" {
		return defaultPeriodDays
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return defaultPeriodDays
	}
	return n
}

// Analytics computes the admin time series over the last periodDays days.
// The window start is now minus periodDays, truncated to start of day, so
// periodDays=0 covers today only. Windows beyond the configured maximum
// are rejected outright instead of triggering an unbounded scan.
func Analytics(ctx context.Context, now time.Time, periodDays int) (models.AnalyticsReport, error) {
	if periodDays > maxPeriodDays {
		return models.AnalyticsReport{}, ErrPeriodTooLarge
	}
	start := lookbackStart(now, periodDays)

	tasks := []utils.ParallelTask{
		func() (interface{}, error) { return dailyAppointments(ctx, start) },
		func() (interface{}, error) { return dailyRegistrations(ctx, start) },
		func() (interface{}, error) { return specializationStats(ctx) },
	}

	results, errs := utils.RunParallelTasks(tasks)
	if err := utils.FirstError(errs); err != nil {
		return models.AnalyticsReport{}, err
	}

	return models.AnalyticsReport{
		DailyAppointments:   results[0].([]models.DailyAppointments),
		DailyRegistrations:  results[1].([]models.DailyRegistrations),
		SpecializationStats: results[2].([]models.SpecializationStat),
	}, nil
}

// lookbackStart is now minus periodDays days, truncated to the start of
// that day in the configured zone.
func lookbackStart(now time.Time, periodDays int) time.Time {
	return startOfDay(now.AddDate(0, 0, -periodDays), loc)
}

// dayKey builds the $dateToString grouping expression for field, using
// the configured zone so day boundaries line up with the dashboard.
func dayKey(field string) bson.M {
	return bson.M{"$dateToString": bson.M{
		"format":   "%Y-%m-%d",
		"date":     field,
		"timezone": loc.String(),
	}}
}

func statusIs(status string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

func roleIs(role string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$role", role}}, 1, 0}}}
}

func dailyAppointmentsPipeline(start time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"appointmentDate": bson.M{"$gte": start}}}},
		{{Key: "$group", Value: bson.M{
			"_id":       dayKey("$appointmentDate"),
			"count":     bson.M{"$sum": 1},
			"completed": statusIs(models.StatusCompleted),
			"cancelled": statusIs(models.StatusCancelled),
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

// dailyAppointments groups appointments since start by calendar day.
// Days without appointments are absent from the series.
func dailyAppointments(ctx context.Context, start time.Time) ([]models.DailyAppointments, error) {
	cursor, err := appointmentCollection.Aggregate(ctx, dailyAppointmentsPipeline(start))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	days := []models.DailyAppointments{}
	if err := cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func dailyRegistrationsPipeline(start time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": start}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      dayKey("$createdAt"),
			"patients": roleIs(models.RolePatient),
			"doctors":  roleIs(models.RoleDoctor),
			"total":    bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

// dailyRegistrations groups new users since start by calendar day.
func dailyRegistrations(ctx context.Context, start time.Time) ([]models.DailyRegistrations, error) {
	cursor, err := userCollection.Aggregate(ctx, dailyRegistrationsPipeline(start))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	days := []models.DailyRegistrations{}
	if err := cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func specializationPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"role": models.RoleDoctor, "isActive": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$specialization",
			"count":     bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating.average"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
}

// specializationStats breaks down active doctors by specialization.
// $avg skips documents with no rating, so unrated doctors do not drag
// the average down.
func specializationStats(ctx context.Context) ([]models.SpecializationStat, error) {
	cursor, err := userCollection.Aggregate(ctx, specializationPipeline())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := []models.SpecializationStat{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
