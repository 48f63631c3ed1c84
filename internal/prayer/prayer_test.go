package prayer

import (
	"testing"
	"time"
)

// helper to build a time.Time on a given date in UTC.
func makeTime(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 2, 28, hour, min, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// ParseNames / Select
// ---------------------------------------------------------------------------

func TestParseNames(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr bool
	}{
		{"empty gives defaults", "", DefaultPrayerNames, false},
		{"subset", "Fajr,Maghrib,Isha", []string{"Fajr", "Maghrib", "Isha"}, false},
		{"spaces and case", " fajr , ISHA", []string{"Fajr", "Isha"}, false},
		{"unknown", "Fajr,Tahajjud", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNames(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseNames(%q) expected error, got nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNames(%q) unexpected error: %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseNames(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseNames(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelect_DefaultPrayers(t *testing.T) {
	times := fixedTimes()
	prayers, err := Select(times, DefaultPrayerNames)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prayers) != len(DefaultPrayerNames) {
		t.Fatalf("expected %d prayers, got %d", len(DefaultPrayerNames), len(prayers))
	}
	for i, name := range DefaultPrayerNames {
		if prayers[i].Name != name {
			t.Errorf("prayer[%d].Name = %q, want %q", i, prayers[i].Name, name)
		}
	}
	if !prayers[3].Time.Equal(times.Asr) {
		t.Errorf("Asr = %v, want %v", prayers[3].Time, times.Asr)
	}
}

func TestSelect_CarriesEstimatedFlag(t *testing.T) {
	times := fixedTimes()
	times.Estimated = times.Estimated.With(Isha)

	prayers, err := Select(times, []string{"Maghrib", "Isha"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prayers[0].Estimated || !prayers[1].Estimated {
		t.Errorf("estimated flags = %v, %v; want false, true", prayers[0].Estimated, prayers[1].Estimated)
	}
}

func TestSelect_UnknownPrayer(t *testing.T) {
	_, err := Select(fixedTimes(), []string{"Tahajjud"})
	if err == nil {
		t.Fatal("expected error for unknown prayer, got nil")
	}
}

// ---------------------------------------------------------------------------
// NextIn / CurrentIn
// ---------------------------------------------------------------------------

func TestNextIn_MiddleOfDay(t *testing.T) {
	prayers := fixedTimes().Prayers()

	// At 13:00 Dhuhr (12:13) has passed and the next should be Asr (15:02)
	next := NextIn(prayers, makeTime(t, 13, 0))
	if next == nil {
		t.Fatal("expected a next prayer, got nil")
	}
	if next.Name != "Asr" {
		t.Errorf("expected Asr, got %s", next.Name)
	}
}

func TestNextIn_IncludesSunriseWhenTracked(t *testing.T) {
	prayers := fixedTimes().Prayers()

	next := NextIn(prayers, makeTime(t, 6, 0))
	if next == nil || next.Name != "Sunrise" {
		t.Errorf("expected Sunrise, got %v", next)
	}
}

func TestNextIn_AfterAllPrayers(t *testing.T) {
	prayers := fixedTimes().Prayers()

	next := NextIn(prayers, makeTime(t, 22, 0))
	if next != nil {
		t.Errorf("expected nil after all prayers, got %s", next.Name)
	}
}

func TestNextIn_EmptyList(t *testing.T) {
	next := NextIn([]Prayer{}, makeTime(t, 12, 0))
	if next != nil {
		t.Errorf("expected nil for empty prayer list, got %v", next)
	}
}

func TestCurrentIn(t *testing.T) {
	prayers := fixedTimes().Prayers()

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before fajr", makeTime(t, 4, 0), ""},
		{"exactly fajr", makeTime(t, 5, 17), "Fajr"},
		{"afternoon", makeTime(t, 16, 0), "Asr"},
		{"night", makeTime(t, 23, 0), "Isha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentIn(prayers, tt.now)
			name := ""
			if got != nil {
				name = got.Name
			}
			if name != tt.want {
				t.Errorf("CurrentIn at %s = %q, want %q", tt.now.Format("15:04"), name, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TimeRemaining
// ---------------------------------------------------------------------------

func TestTimeRemaining(t *testing.T) {
	p := Prayer{Name: "Asr", Time: makeTime(t, 15, 2)}
	now := makeTime(t, 13, 0)

	d := TimeRemaining(p, now)
	if d.Hours() < 2.0 || d.Hours() > 2.1 {
		t.Errorf("expected ~2h, got %v", d)
	}
}

func TestTimeRemaining_Negative(t *testing.T) {
	p := Prayer{Name: "Fajr", Time: makeTime(t, 5, 0)}
	now := makeTime(t, 10, 0)

	d := TimeRemaining(p, now)
	if d >= 0 {
		t.Errorf("expected negative duration, got %v", d)
	}
}

// ---------------------------------------------------------------------------
// FormatRemaining
// ---------------------------------------------------------------------------

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"hours and minutes", 2*time.Hour + 15*time.Minute, "2h 15m"},
		{"only minutes", 45 * time.Minute, "45m"},
		{"exactly one hour", 1 * time.Hour, "1h 0m"},
		{"zero", 0, "0m"},
		{"negative", -30 * time.Minute, "0m"},
		{"large", 10*time.Hour + 59*time.Minute, "10h 59m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRemaining(tt.duration)
			if got != tt.want {
				t.Errorf("FormatRemaining(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ShortNames / Details
// ---------------------------------------------------------------------------

func TestShortNames_AllEvents(t *testing.T) {
	for _, e := range Events() {
		if _, ok := ShortNames[e.String()]; !ok {
			t.Errorf("ShortNames missing entry for %q", e)
		}
	}
}

func TestDetails(t *testing.T) {
	want := map[Event]int{Fajr: 2, Dhuhr: 4, Asr: 4, Maghrib: 3, Isha: 4}
	for e, fard := range want {
		d, ok := Details(e)
		if !ok {
			t.Errorf("Details(%s) missing", e)
			continue
		}
		if d.Rakah.Fard != fard {
			t.Errorf("Details(%s).Rakah.Fard = %d, want %d", e, d.Rakah.Fard, fard)
		}
		if len(d.Notes) == 0 {
			t.Errorf("Details(%s) has no notes", e)
		}
	}
	if _, ok := Details(Sunrise); ok {
		t.Error("Sunrise should have no details")
	}
}
