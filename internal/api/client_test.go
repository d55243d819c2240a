package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// sampleResponse returns a valid Al Adhan API response for Casablanca.
func sampleResponse() Response {
	return Response{
		Code:   200,
		Status: "OK",
		Data: Data{
			Timings: Timings{
				Fajr:    "05:52 (+01)",
				Sunrise: "07:18 (+01)",
				Dhuhr:   "13:34 (+01)",
				Asr:     "16:53 (+01)",
				Maghrib: "19:50 (+01)",
				Isha:    "21:10 (+01)",
			},
			Date: DateInfo{
				Hijri: HijriDate{
					Day:   "11",
					Month: HijriMonth{Number: 9, En: "Ramaḍān", Ar: "رَمَضان"},
					Year:  "1447",
				},
			},
		},
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	c := NewClient()
	c.BaseURL = server.URL
	return c
}

func jsonHandler(v interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}
}

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
// Daily timings
// ---------------------------------------------------------------------------

func TestFetchByCoordinates_Success(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		jsonHandler(sampleResponse())(w, r)
	})

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err := c.FetchByCoordinates(context.Background(), date, 33.5731, -7.5898, MethodMorocco, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/timings/01-03-2026" {
		t.Errorf("path = %q, want /timings/01-03-2026 (DD-MM-YYYY)", gotPath)
	}
	if gotQuery["method"][0] != "21" || gotQuery["school"][0] != "0" {
		t.Errorf("query = %v, want method=21 school=0", gotQuery)
	}
	if got.Data.Timings.Fajr != "05:52 (+01)" {
		t.Errorf("Fajr = %q", got.Data.Timings.Fajr)
	}
	if got.Data.Date.Hijri.Month.Number != 9 {
		t.Errorf("hijri month = %d", got.Data.Date.Hijri.Month.Number)
	}
}

func TestFetchByCoordinates_NoMethodOrSchool(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("method") || q.Has("school") {
			t.Errorf("unexpected method/school params: %v", q)
		}
		jsonHandler(sampleResponse())(w, r)
	})

	if _, err := c.FetchByCoordinates(context.Background(), time.Now(), 34.02, -6.83, -1, -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchByCoordinates_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "{not json")
			},
		},
		{
			name:    "api error code",
			handler: jsonHandler(Response{Code: 400, Status: "Bad Request"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			if _, err := c.FetchByCoordinates(context.Background(), time.Now(), 33.5, -7.5, -1, -1); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestFetchByCoordinates_ConnectionRefused(t *testing.T) {
	c := NewClient()
	c.BaseURL = "http://127.0.0.1:1"
	if _, err := c.FetchByCoordinates(context.Background(), time.Now(), 33.5, -7.5, -1, -1); err == nil {
		t.Fatal("expected error for connection refused, got nil")
	}
}

func TestFetchByCoordinates_CanceledContext(t *testing.T) {
	c := newTestClient(t, jsonHandler(sampleResponse()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.FetchByCoordinates(ctx, time.Now(), 33.5, -7.5, -1, -1); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

// ---------------------------------------------------------------------------
// Calendar endpoint
// ---------------------------------------------------------------------------

func sampleCalendarResponse(days int) CalendarResponse {
	data := make([]Data, days)
	for i := range data {
		d := sampleResponse().Data
		d.Date.Gregorian = GregorianDate{
			Date: fmt.Sprintf("%02d-03-2026", i+1),
			Day:  fmt.Sprintf("%02d", i+1),
		}
		data[i] = d
	}
	return CalendarResponse{Code: 200, Status: "OK", Data: data}
}

func TestFetchCalendarByCoordinates_Success(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		jsonHandler(sampleCalendarResponse(31))(w, r)
	})

	got, err := c.FetchCalendarByCoordinates(context.Background(), 2026, time.March, 33.5731, -7.5898, MethodMorocco, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/calendar/2026/3" {
		t.Errorf("path = %q, want /calendar/2026/3", gotPath)
	}
	if len(got.Data) != 31 {
		t.Fatalf("got %d days, want 31", len(got.Data))
	}
	if got.Data[30].Date.Gregorian.Date != "31-03-2026" {
		t.Errorf("last day = %q", got.Data[30].Date.Gregorian.Date)
	}
}

func TestFetchCalendarByCoordinates_APIErrorCode(t *testing.T) {
	c := newTestClient(t, jsonHandler(CalendarResponse{Code: 500, Status: "Server Error"}))
	if _, err := c.FetchCalendarByCoordinates(context.Background(), 2026, time.March, 33.5, -7.5, -1, -1); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// Hijri conversion
// ---------------------------------------------------------------------------

func TestFetchHijri(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var resp ConversionResponse
		resp.Code = 200
		resp.Status = "OK"
		resp.Data.Hijri = HijriDate{
			Day:   "11",
			Month: HijriMonth{Number: 9, En: "Ramaḍān", Ar: "رَمَضان"},
			Year:  "1447",
		}
		jsonHandler(resp)(w, r)
	})

	got, err := c.FetchHijri(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/gToH/01-03-2026" {
		t.Errorf("path = %q", gotPath)
	}
	if got.Month.Number != 9 || got.Year != "1447" {
		t.Errorf("hijri = %+v", got)
	}
}

func TestFetchHijri_APIError(t *testing.T) {
	c := newTestClient(t, jsonHandler(ConversionResponse{Code: 400, Status: "bad date"}))
	if _, err := c.FetchHijri(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
