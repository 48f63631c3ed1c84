package api

import (
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

func TestHijriDate_Format(t *testing.T) {
	tests := []struct {
		name string
		h    HijriDate
		want string
	}{
		{
			name: "full date",
			h: HijriDate{
				Day:         "10",
				Month:       HijriMonth{Number: 8, En: "Sha'ban"},
				Year:        "1447",
				Designation: HijriDesignation{Abbreviated: "AH"},
			},
			want: "10 Sha'ban 1447 AH",
		},
		{
			name: "missing abbreviated defaults to AH",
			h: HijriDate{
				Day:   "1",
				Month: HijriMonth{Number: 1, En: "Muharram"},
				Year:  "1448",
			},
			want: "1 Muharram 1448 AH",
		},
		{
			name: "empty day returns empty",
			h: HijriDate{
				Month: HijriMonth{En: "Ramadan"},
				Year:  "1447",
			},
			want: "",
		},
		{
			name: "empty month returns empty",
			h: HijriDate{
				Day:  "15",
				Year: "1447",
			},
			want: "",
		},
		{
			name: "empty year returns empty",
			h: HijriDate{
				Day:   "15",
				Month: HijriMonth{En: "Ramadan"},
			},
			want: "",
		},
		{
			name: "all empty returns empty",
			h:    HijriDate{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.h.Format()
			if got != tt.want {
				t.Errorf("HijriDate.Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimings_Times(t *testing.T) {
	zone := time.FixedZone("BST", 3600)
	timings := Timings{
		Fajr:    "04:01 (BST)",
		Sunrise: "05:30 (BST)",
		Dhuhr:   "13:05",
		Asr:     "17:20 (BST)",
		Maghrib: "20:55 (BST)",
		Isha:    "22:40 (BST)",
	}

	got, err := timings.Times(prayer.Date{Year: 2025, Month: time.June, Day: 1}, zone)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2025, time.June, 1, 4, 1, 0, 0, zone)
	if !got.Fajr.Equal(want) {
		t.Errorf("Fajr = %v, want %v", got.Fajr, want)
	}
	if got.Dhuhr.Format("15:04") != "13:05" {
		t.Errorf("Dhuhr = %s, want 13:05", got.Dhuhr.Format("15:04"))
	}
	if got.Isha.Location() != zone {
		t.Errorf("Isha location = %v, want BST", got.Isha.Location())
	}
}

func TestTimings_TimesInvalid(t *testing.T) {
	timings := Timings{Fajr: "05:00", Sunrise: "soon"}
	_, err := timings.Times(prayer.Date{Year: 2025, Month: time.June, Day: 1}, time.UTC)
	if err == nil {
		t.Fatal("expected error for unparseable time")
	}
	if !strings.Contains(err.Error(), "Sunrise") {
		t.Errorf("error should name the field, got: %v", err)
	}
}

func TestMeta_Zone(t *testing.T) {
	if z := (Meta{Timezone: "Asia/Riyadh"}).Zone(time.UTC); z.String() != "Asia/Riyadh" {
		t.Errorf("Zone() = %v, want Asia/Riyadh", z)
	}
	if z := (Meta{Timezone: "Not/AZone"}).Zone(time.UTC); z != time.UTC {
		t.Errorf("Zone() fallback = %v, want UTC", z)
	}
	if z := (Meta{}).Zone(time.Local); z != time.Local {
		t.Errorf("Zone() empty = %v, want Local", z)
	}
}
