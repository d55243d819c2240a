// Package hijri renders the Islamic calendar date shown next to the
// prayer schedule.
package hijri

import (
	"context"
	"fmt"
	"sync"
	"time"

	gohijri "github.com/hablullah/go-hijri"

	"github.com/smokyabdulrahman/salah-times/internal/api"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

var monthsEn = [12]string{
	"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Thani",
	"Jumada al-Awwal", "Jumada al-Thani", "Rajab", "Shaban",
	"Ramadan", "Shawwal", "Dhu al-Qidah", "Dhu al-Hijjah",
}

var monthsAr = [12]string{
	"محرم", "صفر", "ربيع الأول", "ربيع الثاني",
	"جمادى الأولى", "جمادى الثانية", "رجب", "شعبان",
	"رمضان", "شوال", "ذو القعدة", "ذو الحجة",
}

var monthsFr = [12]string{
	"Mouharram", "Safar", "Rabia al awal", "Rabia ath-thani",
	"Joumada al oula", "Joumada ath-thania", "Rajab", "Chaabane",
	"Ramadan", "Chawwal", "Dhou al qi'da", "Dhou al-hijja",
}

// Date is a day in the Hijri calendar.
type Date struct {
	Day   int
	Month int // 1..12
	Year  int
	// Approximate is set when the date was computed locally instead of
	// being returned by the conversion service.
	Approximate bool
}

// MonthName returns the month name in lang ("ar", "fr", anything else is English).
func (d Date) MonthName(lang string) string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	switch lang {
	case "ar":
		return monthsAr[d.Month-1]
	case "fr":
		return monthsFr[d.Month-1]
	default:
		return monthsEn[d.Month-1]
	}
}

// Format renders "11 رمضان 1447 هـ" or "11 Ramadan 1447 AH".
func (d Date) Format(lang string) string {
	if d.Year == 0 {
		return ""
	}
	suffix := "AH"
	if lang == "ar" {
		suffix = "هـ"
	}
	s := fmt.Sprintf("%d %s %d %s", d.Day, d.MonthName(lang), d.Year, suffix)
	if d.Approximate {
		if lang == "ar" {
			return s + " (تقريبي)"
		}
		return s + " (approx.)"
	}
	return s
}

// FromGregorian converts a date with the tabular Islamic calendar. The
// result can differ from the sighted calendar by a day or two.
func FromGregorian(t time.Time) Date {
	// Pin the calendar day of t before go-hijri moves it to UTC.
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	h, err := gohijri.CreateHijriDate(noon, gohijri.Default)
	if err != nil {
		logger.Warn("hijri: tabular conversion failed", "date", noon.Format(prayer.DateLayout), "err", err)
		return Date{Approximate: true}
	}
	return Date{Day: int(h.Day), Month: int(h.Month), Year: int(h.Year), Approximate: true}
}

// Fetcher converts dates remotely. *api.Client satisfies it.
type Fetcher interface {
	FetchHijri(ctx context.Context, date time.Time) (*api.HijriDate, error)
}

// Service resolves Hijri dates through a Fetcher and remembers the answer
// per Gregorian date. Failures fall back to FromGregorian.
type Service struct {
	fetcher Fetcher

	mu   sync.Mutex
	memo map[string]Date
}

// NewService returns a Service. A nil fetcher always uses the local calendar.
func NewService(f Fetcher) *Service {
	return &Service{fetcher: f, memo: make(map[string]Date)}
}

// For returns the Hijri date of the calendar day of t.
func (s *Service) For(ctx context.Context, t time.Time) Date {
	key := t.Format(prayer.DateLayout)

	s.mu.Lock()
	if d, ok := s.memo[key]; ok {
		s.mu.Unlock()
		return d
	}
	s.mu.Unlock()

	if s.fetcher == nil {
		return FromGregorian(t)
	}

	h, err := s.fetcher.FetchHijri(ctx, t)
	if err != nil {
		logger.Warn("hijri conversion failed, using tabular calendar", "date", key, "err", err)
		return FromGregorian(t)
	}
	d, err := fromAPI(h)
	if err != nil {
		logger.Warn("unexpected hijri payload", "date", key, "err", err)
		return FromGregorian(t)
	}

	s.mu.Lock()
	s.memo[key] = d
	s.mu.Unlock()
	return d
}

func fromAPI(h *api.HijriDate) (Date, error) {
	day, month, year, err := h.Numbers()
	if err != nil {
		return Date{}, err
	}
	return Date{Day: day, Month: month, Year: year}, nil
}
