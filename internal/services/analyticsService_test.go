package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arzan03/MediBook/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"missing", "", 30},
		{"non-numeric", "abc", 30},
		{"negative", "-5", 30},
		{"zero", "0", 0},
		{"valid", "45", 45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParsePeriod(tc.raw); got != tc.want {
				t.Fatalf("ParsePeriod(%q) = %d, want %d", tc.raw, got, tc.want)
			}
		})
	}
}

func TestLookbackStart(t *testing.T) {
	now := time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)

	t.Run("zero period covers today only", func(t *testing.T) {
		got := lookbackStart(now, 0)
		want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("lookbackStart = %v, want %v", got, want)
		}
	})

	t.Run("thirty days back", func(t *testing.T) {
		got := lookbackStart(now, 30)
		want := time.Date(2023, 12, 16, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("lookbackStart = %v, want %v", got, want)
		}
	})
}

func TestAnalyticsRejectsOversizedPeriod(t *testing.T) {
	// TestMain configures a 90-day maximum. The bound is checked before
	// any query runs, so no database is needed here.
	_, err := Analytics(context.Background(), time.Now(), 91)
	if !errors.Is(err, ErrPeriodTooLarge) {
		t.Fatalf("Analytics(period=91) error = %v, want ErrPeriodTooLarge", err)
	}
}

func TestDailyAppointmentsPipeline(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := dailyAppointmentsPipeline(start)

	// Three stages and no $densify or similar: absent days stay absent
	// rather than being zero-filled.
	if len(p) != 3 {
		t.Fatalf("pipeline has %d stages, want 3", len(p))
	}

	match := stage(t, p, 0, "$match")
	if gte := match["appointmentDate"].(bson.M)["$gte"].(time.Time); !gte.Equal(start) {
		t.Errorf("match $gte = %v, want %v", gte, start)
	}

	group := stage(t, p, 1, "$group")
	key := group["_id"].(bson.M)["$dateToString"].(bson.M)
	if key["format"] != "%Y-%m-%d" {
		t.Errorf("day key format = %v, want %%Y-%%m-%%d", key["format"])
	}
	if key["timezone"] != "UTC" {
		t.Errorf("day key timezone = %v, want UTC", key["timezone"])
	}

	sort := stage(t, p, 2, "$sort")
	if sort["_id"] != 1 {
		t.Errorf("sort _id = %v, want 1 (chronological)", sort["_id"])
	}
}

func TestDailyRegistrationsPipeline(t *testing.T) {
	p := dailyRegistrationsPipeline(time.Now())

	group := stage(t, p, 1, "$group")
	for _, field := range []string{"patients", "doctors", "total"} {
		if _, ok := group[field]; !ok {
			t.Errorf("group is missing %q", field)
		}
	}
}

func TestSpecializationPipeline(t *testing.T) {
	p := specializationPipeline()

	match := stage(t, p, 0, "$match")
	if match["role"] != models.RoleDoctor || match["isActive"] != true {
		t.Errorf("match = %v, want active doctors only", match)
	}

	group := stage(t, p, 1, "$group")
	if avg := group["avgRating"].(bson.M)["$avg"]; avg != "$rating.average" {
		t.Errorf("avgRating averages %v, want $rating.average", avg)
	}

	sort := stage(t, p, 2, "$sort")
	if sort["count"] != -1 {
		t.Errorf("sort count = %v, want -1", sort["count"])
	}
}

func TestDailyAppointmentsAggregation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sparse series keeps only days with activity", func(mt *mtest.T) {
		appointmentCollection = mt.Coll
		defer func() { appointmentCollection = nil }()

		// Appointments fell on the 15th and 18th only.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "medibook.appointments", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "2024-01-15"},
				{Key: "count", Value: 3},
				{Key: "completed", Value: 3},
				{Key: "cancelled", Value: 0},
			},
			bson.D{
				{Key: "_id", Value: "2024-01-18"},
				{Key: "count", Value: 1},
				{Key: "completed", Value: 0},
				{Key: "cancelled", Value: 1},
			}))

		days, err := dailyAppointments(context.Background(), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
		if err != nil {
			mt.Fatalf("dailyAppointments failed: %v", err)
		}
		if len(days) != 2 {
			mt.Fatalf("got %d days, want 2 (no gap filling)", len(days))
		}
		if days[0].Day != "2024-01-15" || days[0].Count != 3 || days[0].Completed != 3 {
			mt.Fatalf("first day = %+v", days[0])
		}
		if days[1].Day != "2024-01-18" || days[1].Cancelled != 1 {
			mt.Fatalf("second day = %+v", days[1])
		}
	})
}
