package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserStats holds the user-side counters of the admin dashboard.
type UserStats struct {
	Total        int64 `json:"total"`
	Patients     int64 `json:"patients"`
	Doctors      int64 `json:"doctors"`
	Active       int64 `json:"active"`
	NewThisMonth int64 `json:"newThisMonth"`
}

// AppointmentStats holds the appointment-side counters of the admin dashboard.
type AppointmentStats struct {
	Total     int64 `json:"total"`
	Today     int64 `json:"today"`
	ThisWeek  int64 `json:"thisWeek"`
	ThisMonth int64 `json:"thisMonth"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

type RevenueStats struct {
	ThisMonth float64 `json:"thisMonth"`
}

// TopDoctor is one row of the monthly top-doctors ranking. Groups whose
// doctor id has no matching user are dropped by the lookup stage.
type TopDoctor struct {
	DoctorID         primitive.ObjectID `bson:"_id" json:"doctorId"`
	Name             string             `bson:"name" json:"name"`
	Specialization   string             `bson:"specialization" json:"specialization"`
	AppointmentCount int64              `bson:"appointmentCount" json:"appointmentCount"`
	Revenue          float64            `bson:"revenue" json:"revenue"`
}

type DashboardStats struct {
	Users        UserStats        `json:"users"`
	Appointments AppointmentStats `json:"appointments"`
	Revenue      RevenueStats     `json:"revenue"`
	TopDoctors   []TopDoctor      `json:"topDoctors"`
}

// DailyAppointments is one day of the appointment time series. Days with
// no appointments do not appear at all (sparse series).
type DailyAppointments struct {
	Day       string `bson:"_id" json:"day"`
	Count     int64  `bson:"count" json:"count"`
	Completed int64  `bson:"completed" json:"completed"`
	Cancelled int64  `bson:"cancelled" json:"cancelled"`
}

// DailyRegistrations is one day of the user-registration time series.
type DailyRegistrations struct {
	Day      string `bson:"_id" json:"day"`
	Patients int64  `bson:"patients" json:"patients"`
	Doctors  int64  `bson:"doctors" json:"doctors"`
	Total    int64  `bson:"total" json:"total"`
}

// SpecializationStat is the per-specialization breakdown of active doctors.
// AvgRating is nil when no doctor in the group has been rated yet.
type SpecializationStat struct {
	Specialization string   `bson:"_id" json:"specialization"`
	Count          int64    `bson:"count" json:"count"`
	AvgRating      *float64 `bson:"avgRating" json:"avgRating"`
}

type AnalyticsReport struct {
	DailyAppointments   []DailyAppointments  `json:"dailyAppointments"`
	DailyRegistrations  []DailyRegistrations `json:"dailyRegistrations"`
	SpecializationStats []SpecializationStat `json:"specializationStats"`
}
