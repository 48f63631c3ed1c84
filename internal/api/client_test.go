package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

// sampleResponse returns a valid Al Adhan API response for testing.
func sampleResponse() Response {
	return Response{
		Code:   200,
		Status: "OK",
		Data: Data{
			Timings: Timings{
				Fajr:       "05:17",
				Sunrise:    "06:48",
				Dhuhr:      "12:13",
				Asr:        "15:02",
				Sunset:     "17:39",
				Maghrib:    "17:39",
				Isha:       "19:10",
				Imsak:      "05:07",
				Midnight:   "00:14",
				Firstthird: "22:02",
				Lastthird:  "02:25",
			},
			Date: DateInfo{
				Readable:  "28 Feb 2026",
				Timestamp: "1772262000",
			},
			Meta: Meta{
				Latitude:  51.5074,
				Longitude: -0.1278,
				Timezone:  "Europe/London",
				Method:    MethodInfo{ID: 2, Name: "ISNA"},
				School:    "STANDARD",
			},
		},
	}
}

// testClient points a client at url with fast retries.
func testClient(url string) *Client {
	c := NewClient()
	c.BaseURL = url
	c.Delay = time.Millisecond
	return c
}

func londonQuery(s prayer.Settings) Query {
	return Query{
		Location: prayer.Location{Latitude: 51.5074, Longitude: -0.1278},
		Settings: s,
	}
}

var feb28 = prayer.Date{Year: 2026, Month: time.February, Day: 28}

func TestNewClient(t *testing.T) {
	c := NewClient()
	if c == nil {
		t.Fatal("NewClient returned nil")
	}
	if c.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, defaultBaseURL)
	}
}

// ---------------------------------------------------------------------------
// Parameter mapping
// ---------------------------------------------------------------------------

func TestMethodID(t *testing.T) {
	tests := []struct {
		m    prayer.Method
		want int
	}{
		{prayer.Karachi, 1},
		{prayer.ISNA, 2},
		{prayer.MWL, 3},
		{prayer.Makkah, 4},
		{prayer.Egypt, 5},
		{prayer.Method(42), -1},
	}
	for _, tt := range tests {
		if got := MethodID(tt.m); got != tt.want {
			t.Errorf("MethodID(%v) = %d, want %d", tt.m, got, tt.want)
		}
	}
}

func TestSchoolAndLatitudeAdjustmentIDs(t *testing.T) {
	if SchoolID(prayer.Standard) != 0 || SchoolID(prayer.Hanafi) != 1 {
		t.Error("SchoolID mapping wrong")
	}
	if LatitudeAdjustmentID(prayer.NightMiddle) != 1 ||
		LatitudeAdjustmentID(prayer.OneSeventh) != 2 ||
		LatitudeAdjustmentID(prayer.AngleBased) != 3 {
		t.Error("LatitudeAdjustmentID mapping wrong")
	}
}

func TestQueryValues(t *testing.T) {
	s := prayer.Settings{
		Method:       prayer.ISNA,
		Asr:          prayer.Hanafi,
		HighLatitude: prayer.AngleBased,
		Adjustments:  prayer.Adjustments{Fajr: 2, Isha: -3},
	}
	q := londonQuery(s)
	q.Timezone = "Europe/London"

	v := q.values()
	want := map[string]string{
		"latitude":                 "51.507400",
		"longitude":                "-0.127800",
		"method":                   "2",
		"school":                   "1",
		"latitudeAdjustmentMethod": "3",
		"tune":                     "0,2,0,0,0,0,0,-3,0",
		"timezonestring":           "Europe/London",
	}
	for k, w := range want {
		if got := v.Get(k); got != w {
			t.Errorf("%s = %q, want %q", k, got, w)
		}
	}
}

func TestQueryValues_NoTuneWithoutAdjustments(t *testing.T) {
	v := londonQuery(prayer.DefaultSettings()).values()
	if _, ok := v["tune"]; ok {
		t.Errorf("tune should be omitted, got %q", v.Get("tune"))
	}
	if _, ok := v["timezonestring"]; ok {
		t.Error("timezonestring should be omitted when no zone is known")
	}
}

// ---------------------------------------------------------------------------
// FetchTimings
// ---------------------------------------------------------------------------

func TestFetchTimings_Success(t *testing.T) {
	resp := sampleResponse()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify the request path contains /timings/ and date format DD-MM-YYYY.
		if !strings.Contains(r.URL.Path, "/timings/28-02-2026") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("method") != "2" {
			t.Errorf("method = %q, want %q", q.Get("method"), "2")
		}
		if q.Get("school") != "0" {
			t.Errorf("school = %q, want %q", q.Get("school"), "0")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	s := prayer.DefaultSettings()
	s.Method = prayer.ISNA
	got, err := testClient(server.URL).FetchTimings(context.Background(), feb28, londonQuery(s))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Data.Timings.Fajr != "05:17" {
		t.Errorf("Fajr = %q, want %q", got.Data.Timings.Fajr, "05:17")
	}
	if got.Data.Meta.Timezone != "Europe/London" {
		t.Errorf("Timezone = %q, want %q", got.Data.Meta.Timezone, "Europe/London")
	}
}

func TestFetchTimings_DateFormat(t *testing.T) {
	var capturedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		json.NewEncoder(w).Encode(sampleResponse())
	}))
	defer server.Close()

	date := prayer.Date{Year: 2026, Month: time.March, Day: 5}
	if _, err := testClient(server.URL).FetchTimings(context.Background(), date, londonQuery(prayer.DefaultSettings())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(capturedPath, "/timings/05-03-2026") {
		t.Errorf("date format wrong in path: %s (expected DD-MM-YYYY)", capturedPath)
	}
}

func TestFetchTimings_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad latitude", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchTimings(context.Background(), feb28, londonQuery(prayer.DefaultSettings()))
	if err == nil {
		t.Fatal("expected error for HTTP 400, got nil")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "bad latitude") {
		t.Errorf("error should mention status and body, got: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestFetchTimings_ServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(sampleResponse())
	}))
	defer server.Close()

	got, err := testClient(server.URL).FetchTimings(context.Background(), feb28, londonQuery(prayer.DefaultSettings()))
	if err != nil {
		t.Fatalf("unexpected error after retries: %v", err)
	}
	if got.Data.Timings.Isha != "19:10" {
		t.Errorf("Isha = %q, want 19:10", got.Data.Timings.Isha)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("server called %d times, want 3", n)
	}
}

func TestFetchTimings_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not valid json"))
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchTimings(context.Background(), feb28, londonQuery(prayer.DefaultSettings()))
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("error should mention decode, got: %v", err)
	}
}

func TestFetchTimings_APIErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Response{Code: 400, Status: "Bad Request"})
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchTimings(context.Background(), feb28, londonQuery(prayer.DefaultSettings()))
	if err == nil {
		t.Fatal("expected error for API error code, got nil")
	}
	if !strings.Contains(err.Error(), "code=400") {
		t.Errorf("error should contain code=400, got: %v", err)
	}
}

func TestFetchTimings_ConnectionRefused(t *testing.T) {
	_, err := testClient("http://127.0.0.1:1").FetchTimings(context.Background(), feb28, londonQuery(prayer.DefaultSettings()))
	if err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

// ---------------------------------------------------------------------------
// FetchCalendar
// ---------------------------------------------------------------------------

// sampleCalendarResponse returns a valid Al Adhan calendar API response for testing.
func sampleCalendarResponse(days int) CalendarResponse {
	data := make([]Data, days)
	for i := 0; i < days; i++ {
		d := sampleResponse().Data
		d.Date.Gregorian = GregorianDate{
			Date: fmt.Sprintf("%02d-02-2026", i+1),
			Day:  fmt.Sprintf("%d", i+1),
		}
		data[i] = d
	}
	return CalendarResponse{
		Code:   200,
		Status: "OK",
		Data:   data,
	}
}

func TestFetchCalendar_Success(t *testing.T) {
	resp := sampleCalendarResponse(28)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify the request path contains /calendar/YYYY/MM.
		if !strings.HasSuffix(r.URL.Path, "/calendar/2026/2") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("latitude") == "" {
			t.Error("missing latitude param")
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	got, err := testClient(server.URL).FetchCalendar(context.Background(), 2026, time.February, londonQuery(prayer.DefaultSettings()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data) != 28 {
		t.Errorf("got %d days, want 28", len(got.Data))
	}
	day, err := got.Data[4].Date.Gregorian.Day()
	if err != nil {
		t.Fatal(err)
	}
	if day != (prayer.Date{Year: 2026, Month: time.February, Day: 5}) {
		t.Errorf("Day() = %v, want 2026-02-05", day)
	}
}

func TestFetchCalendar_APIErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CalendarResponse{Code: 400, Status: "Bad Request"})
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchCalendar(context.Background(), 2026, time.February, londonQuery(prayer.DefaultSettings()))
	if err == nil {
		t.Fatal("expected error for API error code, got nil")
	}
}

func TestFetchCalendar_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient("http://127.0.0.1:1").FetchCalendar(ctx, 2026, time.February, londonQuery(prayer.DefaultSettings()))
	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
}
