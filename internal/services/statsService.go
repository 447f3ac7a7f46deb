package services

import (
	"context"
	"time"

	"github.com/arzan03/MediBook/internal/models"
	"github.com/arzan03/MediBook/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Day-boundary math runs in the configured location. The week starts on
// Sunday, matching what the dashboard has always reported.

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func startOfWeek(t time.Time, loc *time.Location) time.Time {
	day := startOfDay(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func startOfMonth(t time.Time, loc *time.Location) time.Time {
	y, m, _ := t.In(loc).Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, loc)
}

// CurrentDay returns t's calendar day in the configured zone as
// YYYY-MM-DD. Callers caching window-relative results key on this so a
// cached value never outlives the windows it was computed in: every
// week and month boundary is also a day boundary.
func CurrentDay(t time.Time) string {
	return t.In(loc).Format("2006-01-02")
}

// DashboardStats computes the admin dashboard counters for the instant
// `now`. Every sub-query is an independent read; they all fan out at once
// and the first failure aborts the whole computation.
func DashboardStats(ctx context.Context, now time.Time) (models.DashboardStats, error) {
	dayStart := startOfDay(now, loc)
	nextDay := dayStart.AddDate(0, 0, 1)
	weekStart := startOfWeek(now, loc)
	monthStart := startOfMonth(now, loc)

	count := func(coll *mongo.Collection, filter bson.M) utils.ParallelTask {
		return func() (interface{}, error) {
			return coll.CountDocuments(ctx, filter)
		}
	}

	tasks := []utils.ParallelTask{
		count(userCollection, bson.M{}),
		count(userCollection, bson.M{"role": models.RolePatient}),
		count(userCollection, bson.M{"role": models.RoleDoctor}),
		count(userCollection, bson.M{"isActive": true}),
		count(userCollection, bson.M{"createdAt": bson.M{"$gte": monthStart}}),
		count(appointmentCollection, bson.M{}),
		count(appointmentCollection, bson.M{"appointmentDate": bson.M{"$gte": dayStart, "$lt": nextDay}}),
		count(appointmentCollection, bson.M{"appointmentDate": bson.M{"$gte": weekStart}}),
		count(appointmentCollection, bson.M{"appointmentDate": bson.M{"$gte": monthStart}}),
		count(appointmentCollection, bson.M{"status": models.StatusCompleted}),
		count(appointmentCollection, bson.M{"status": models.StatusCancelled}),
		func() (interface{}, error) { return monthlyRevenue(ctx, monthStart) },
		func() (interface{}, error) { return topDoctors(ctx, monthStart) },
	}

	results, errs := utils.RunParallelTasks(tasks)
	if err := utils.FirstError(errs); err != nil {
		return models.DashboardStats{}, err
	}

	return models.DashboardStats{
		Users: models.UserStats{
			Total:        results[0].(int64),
			Patients:     results[1].(int64),
			Doctors:      results[2].(int64),
			Active:       results[3].(int64),
			NewThisMonth: results[4].(int64),
		},
		Appointments: models.AppointmentStats{
			Total:     results[5].(int64),
			Today:     results[6].(int64),
			ThisWeek:  results[7].(int64),
			ThisMonth: results[8].(int64),
			Completed: results[9].(int64),
			Cancelled: results[10].(int64),
		},
		Revenue: models.RevenueStats{
			ThisMonth: results[11].(float64),
		},
		TopDoctors: results[12].([]models.TopDoctor),
	}, nil
}

func monthlyRevenuePipeline(monthStart time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":          models.StatusCompleted,
			"appointmentDate": bson.M{"$gte": monthStart},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$consultationFee"},
		}}},
	}
}

// monthlyRevenue sums consultation fees over completed appointments since
// monthStart. No matching documents yields 0, not an error.
func monthlyRevenue(ctx context.Context, monthStart time.Time) (float64, error) {
	cursor, err := appointmentCollection.Aggregate(ctx, monthlyRevenuePipeline(monthStart))
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func topDoctorsPipeline(monthStart time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":          models.StatusCompleted,
			"appointmentDate": bson.M{"$gte": monthStart},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":              "$doctor",
			"appointmentCount": bson.M{"$sum": 1},
			"revenue":          bson.M{"$sum": "$consultationFee"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "doctor",
		}}},
		{{Key: "$unwind", Value: "$doctor"}},
		{{Key: "$project", Value: bson.M{
			"name":             "$doctor.name",
			"specialization":   "$doctor.specialization",
			"appointmentCount": 1,
			"revenue":          1,
		}}},
		{{Key: "$sort", Value: bson.M{"appointmentCount": -1}}},
		{{Key: "$limit", Value: 5}},
	}
}

// topDoctors ranks doctors by completed appointments since monthStart.
// The lookup is an inner join: groups whose doctor id has no matching
// user document are dropped by the unwind stage.
func topDoctors(ctx context.Context, monthStart time.Time) ([]models.TopDoctor, error) {
	cursor, err := appointmentCollection.Aggregate(ctx, topDoctorsPipeline(monthStart))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	doctors := []models.TopDoctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}
