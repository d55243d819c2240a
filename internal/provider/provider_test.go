package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goprayer "github.com/hablullah/go-prayer"

	"github.com/smokyabdulrahman/salah-times/internal/api"
	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

var casa = cities.City{ID: 71, Name: "Casablanca", Lat: 33.5731, Lon: -7.5898}

func march(day int) time.Time {
	return time.Date(2026, 3, day, 9, 0, 0, 0, time.FixedZone("+01", 3600))
}

// ---------------------------------------------------------------------------
// Yabiladi
// ---------------------------------------------------------------------------

const schedulePage = `<!DOCTYPE html>
<html><body>
<table class="other"><tr><td>noise</td></tr></table>
<table class="table horaire">
  <tr><th>Date</th><th>Fajr</th><th>Chourouq</th><th>Dohr</th><th>Asr</th><th>Maghrib</th><th>Icha</th></tr>
  <tr><td>Dim 01/03</td><td>06:36</td><td>07:59</td><td>13:47</td><td>16:58</td><td>19:29</td><td>20:45</td></tr>
  <tr><td>Lun 02/03</td><td>06:35</td><td>07:58</td><td>13:47</td><td>16:58</td><td>19:30</td><td>20:46</td></tr>
  <tr><td>Mar 03/03</td><td> 06:33 </td><td>07:57</td><td>13:47</td><td>16:59</td><td>19:31</td><td>20:47</td></tr>
</table>
</body></html>`

func newYabiladi(t *testing.T, h http.HandlerFunc) *Yabiladi {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	y := NewYabiladi()
	y.BaseURL = server.URL
	return y
}

func TestYabiladi_PicksRowForDate(t *testing.T) {
	var gotPath, gotUA string
	y := newYabiladi(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotUA = r.URL.Path, r.UserAgent()
		fmt.Fprint(w, schedulePage)
	})

	got, err := y.Fetch(context.Background(), casa, march(3))
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotPath != "/71-1.html" {
		t.Errorf("path = %q, want /71-1.html", gotPath)
	}
	if !strings.HasPrefix(gotUA, "Mozilla/5.0") {
		t.Errorf("user agent = %q", gotUA)
	}
	want := prayer.Times{Date: "2026-03-03", Fajr: "06:33", Sunrise: "07:57", Dhuhr: "13:47", Asr: "16:59", Maghrib: "19:31", Isha: "20:47"}
	if *got != want {
		t.Errorf("Fetch = %+v, want %+v", *got, want)
	}
}

func TestYabiladi_FallsBackToFirstRow(t *testing.T) {
	y := newYabiladi(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, schedulePage)
	})

	got, err := y.Fetch(context.Background(), casa, march(20))
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got.Fajr != "06:36" || got.Date != "2026-03-20" {
		t.Errorf("fallback = %+v, want first row stamped with requested date", got)
	}

	y.Strict = true
	if _, err := y.Fetch(context.Background(), casa, march(20)); !errors.Is(err, ErrDateNotFound) {
		t.Errorf("strict err = %v, want ErrDateNotFound", err)
	}
}

func TestYabiladi_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"no table", `<html><body><p>maintenance</p></body></html>`, 200},
		{"header only", `<table class="horaire"><tr><th>Date</th></tr></table>`, 200},
		{"short rows", `<table class="horaire"><tr><td>01/03</td><td>06:36</td></tr></table>`, 200},
		{"bad time", `<table class="horaire"><tr><td>01/03</td><td>6h36</td><td>07:59</td><td>13:47</td><td>16:58</td><td>19:29</td><td>20:45</td></tr></table>`, 200},
		{"out of order", `<table class="horaire"><tr><td>01/03</td><td>08:36</td><td>07:59</td><td>13:47</td><td>16:58</td><td>19:29</td><td>20:45</td></tr></table>`, 200},
		{"server error", ``, 503},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := newYabiladi(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				fmt.Fprint(w, tt.body)
			})
			if _, err := y.Fetch(context.Background(), casa, march(1)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Aladhan
// ---------------------------------------------------------------------------

func aladhanServer(t *testing.T) *api.Client {
	t.Helper()
	timings := api.Timings{
		Fajr: "06:36 (+01)", Sunrise: "07:59 (+01)", Dhuhr: "13:47 (+01)",
		Asr: "16:58 (+01)", Maghrib: "19:29 (+01)", Isha: "20:45 (+01)",
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("method") != "21" {
			t.Errorf("method = %q, want 21", r.URL.Query().Get("method"))
		}
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/calendar/") {
			resp := api.CalendarResponse{Code: 200, Status: "OK"}
			for d := 1; d <= 3; d++ {
				var day api.Data
				day.Timings = timings
				day.Date.Gregorian.Date = fmt.Sprintf("%02d-03-2026", d)
				resp.Data = append(resp.Data, day)
			}
			json.NewEncoder(w).Encode(resp)
			return
		}
		json.NewEncoder(w).Encode(api.Response{Code: 200, Status: "OK", Data: api.Data{Timings: timings}})
	}))
	t.Cleanup(server.Close)
	c := api.NewClient()
	c.BaseURL = server.URL
	return c
}

func TestAladhan_Fetch(t *testing.T) {
	a := NewAladhan(aladhanServer(t))
	got, err := a.Fetch(context.Background(), casa, march(1))
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if got.Fajr != "06:36" || got.Isha != "20:45" || got.Date != "2026-03-01" {
		t.Errorf("Fetch = %+v, want timezone suffix stripped", got)
	}
}

func TestAladhan_FetchMonth(t *testing.T) {
	a := NewAladhan(aladhanServer(t))
	days, err := a.FetchMonth(context.Background(), casa, 2026, time.March, time.UTC)
	if err != nil {
		t.Fatalf("FetchMonth error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}
	if days[2].Date != "2026-03-03" {
		t.Errorf("third day = %q", days[2].Date)
	}
}

// ---------------------------------------------------------------------------
// Offline
// ---------------------------------------------------------------------------

func TestOffline_Casablanca(t *testing.T) {
	got, err := Offline{}.Fetch(context.Background(), casa, march(1))
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("estimate out of order: %v", err)
	}

	// Published ministry times for 2026-03-01 (UTC+1).
	published := prayer.Times{Fajr: "06:36", Sunrise: "07:59", Dhuhr: "13:47", Asr: "16:58", Maghrib: "19:29", Isha: "20:45"}
	for _, s := range prayer.AllSlots {
		diff := got.Minute(s) - published.Minute(s)
		if diff < -10 || diff > 10 {
			t.Errorf("%s = %s, published %s", s, got.Get(s), published.Get(s))
		}
	}
}

func TestOffline_OrderedAllYear(t *testing.T) {
	for _, c := range cities.All() {
		for d := time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("+01", 3600)); d.Year() == 2026; d = d.AddDate(0, 0, 7) {
			_, err := Offline{}.Fetch(context.Background(), c, d)
			if err != nil {
				t.Fatalf("%s %s: %v", c.Name, d.Format(prayer.DateLayout), err)
			}
		}
	}
}

func TestOffline_PolarNight(t *testing.T) {
	svalbard := cities.City{Name: "Longyearbyen", Lat: 78.2, Lon: 15.6}
	_, err := Offline{}.Fetch(context.Background(), svalbard, time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNoSunrise) {
		t.Errorf("err = %v, want ErrNoSunrise", err)
	}
}

func TestOffline_MinistryOffsets(t *testing.T) {
	date := march(1)
	got, err := Offline{}.Fetch(context.Background(), casa, date)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	cfg := ministryConfig(casa)
	cfg.TimeCorrections = goprayer.TimeCorrections{}
	bare, err := goprayer.Calculate(cfg, date)
	if err != nil {
		t.Fatalf("Calculate error: %v", err)
	}

	tests := []struct {
		slot prayer.Slot
		raw  time.Time
		want int
	}{
		{prayer.Fajr, bare.Fajr, 0},
		{prayer.Sunrise, bare.Sunrise, 0},
		{prayer.Dhuhr, bare.Zuhr, 5},
		{prayer.Asr, bare.Asr, 0},
		{prayer.Maghrib, bare.Maghrib, 5},
		{prayer.Isha, bare.Isha, 0},
	}
	for _, tt := range tests {
		t.Run(tt.slot.String(), func(t *testing.T) {
			raw := tt.raw.Hour()*60 + tt.raw.Minute()
			if diff := got.Minute(tt.slot) - raw; diff != tt.want {
				t.Errorf("%s offset = %d min, want %d", tt.slot, diff, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Chain
// ---------------------------------------------------------------------------

type stubProvider struct {
	name  string
	times *prayer.Times
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(context.Context, cities.City, time.Time) (*prayer.Times, error) {
	s.calls++
	return s.times, s.err
}

func TestChain(t *testing.T) {
	good := &prayer.Times{Date: "2026-03-01", Fajr: "06:36", Sunrise: "07:59", Dhuhr: "13:47", Asr: "16:58", Maghrib: "19:29", Isha: "20:45"}

	t.Run("first success wins", func(t *testing.T) {
		a := &stubProvider{name: "a", err: errors.New("down")}
		b := &stubProvider{name: "b", times: good}
		c := &stubProvider{name: "c", times: good}
		got, src, err := Chain{a, b, c}.FetchSource(context.Background(), casa, march(1))
		if err != nil || got != good || src != "b" {
			t.Fatalf("FetchSource = %v, %q, %v", got, src, err)
		}
		if c.calls != 0 {
			t.Error("provider after success should not be called")
		}
	})

	t.Run("all fail joins errors", func(t *testing.T) {
		errA, errB := errors.New("a down"), errors.New("b down")
		_, err := Chain{&stubProvider{name: "a", err: errA}, &stubProvider{name: "b", err: errB}}.
			Fetch(context.Background(), casa, march(1))
		if !errors.Is(err, errA) || !errors.Is(err, errB) {
			t.Errorf("err = %v, want both causes", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := (Chain{}).Fetch(context.Background(), casa, march(1)); err == nil {
			t.Error("expected error for empty chain")
		}
	})

	t.Run("canceled context stops early", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		b := &stubProvider{name: "b", times: good}
		_, err := Chain{&stubProvider{name: "a", err: context.Canceled}, b}.Fetch(ctx, casa, march(1))
		if err == nil || b.calls != 0 {
			t.Errorf("err = %v, calls = %d; want early stop", err, b.calls)
		}
	})

	if got := (Chain{&stubProvider{name: "x"}, &stubProvider{name: "y"}}).Name(); got != "chain(x,y)" {
		t.Errorf("Name = %q", got)
	}
}
