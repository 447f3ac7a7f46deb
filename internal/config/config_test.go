package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MongoDB != "medibook" {
		t.Errorf("MongoDB = %q, want medibook", cfg.MongoDB)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Timezone)
	}
	if cfg.MaxPeriodDays != 365 {
		t.Errorf("MaxPeriodDays = %d, want 365", cfg.MaxPeriodDays)
	}
	if cfg.JWTTTLHours != 4 {
		t.Errorf("JWTTTLHours = %d, want 4", cfg.JWTTTLHours)
	}
	if cfg.DashboardCacheTTL != 60 {
		t.Errorf("DashboardCacheTTL = %d, want 60", cfg.DashboardCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "America/New_York")
	t.Setenv("ANALYTICS_MAX_PERIOD_DAYS", "90")
	t.Setenv("RATE_LIMIT_AUTH_RPS", "2.5")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q, want America/New_York", cfg.Timezone)
	}
	if cfg.MaxPeriodDays != 90 {
		t.Errorf("MaxPeriodDays = %d, want 90", cfg.MaxPeriodDays)
	}
	if cfg.AuthRateRPS != 2.5 {
		t.Errorf("AuthRateRPS = %v, want 2.5", cfg.AuthRateRPS)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ANALYTICS_MAX_PERIOD_DAYS", "a lot")

	cfg := Load()
	if cfg.MaxPeriodDays != 365 {
		t.Errorf("MaxPeriodDays = %d, want default 365", cfg.MaxPeriodDays)
	}
}

func TestLocation(t *testing.T) {
	cases := []struct {
		zone    string
		wantErr bool
	}{
		{"UTC", false},
		{"America/New_York", false},
		// Only Go understands these; the database evaluating the same
		// zone name would reject them, so Location refuses them up front.
		{"Local", true},
		{"", true},
		{"Not/AZone", true},
	}
	for _, tc := range cases {
		t.Run(tc.zone, func(t *testing.T) {
			cfg := &Config{Timezone: tc.zone}
			loc, err := cfg.Location()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Location(%q) = %v, want error", tc.zone, loc)
				}
				return
			}
			if err != nil {
				t.Skipf("zone %q unavailable: %v", tc.zone, err)
			}
			if loc.String() != tc.zone {
				t.Errorf("Location(%q) = %v", tc.zone, loc)
			}
		})
	}
}
