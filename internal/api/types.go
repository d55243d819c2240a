package api

import (
	"fmt"
	"strconv"
)

// Response is the body of the timings endpoint.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data is one day: its timings and the dates it falls on.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
}

// Timings holds the six slots as "HH:MM", sometimes followed by a zone
// suffix such as " (+01)". prayer.ParseMinuteOfDay strips it.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// DateInfo carries both calendars of a day.
type DateInfo struct {
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate is the Islamic date as the API returns it: numbers as strings.
type HijriDate struct {
	Date  string     `json:"date"` // "11-09-1447"
	Day   string     `json:"day"`
	Month HijriMonth `json:"month"`
	Year  string     `json:"year"`
}

// HijriMonth names the month. Names are transliterated with diacritics
// ("Ramaḍān"), so callers use Number.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
	Ar     string `json:"ar"`
}

// Numbers parses day, month and year, checking the month range.
func (h HijriDate) Numbers() (day, month, year int, err error) {
	day, err = strconv.Atoi(h.Day)
	if err != nil || day < 1 || day > 30 {
		return 0, 0, 0, fmt.Errorf("hijri day %q invalid", h.Day)
	}
	year, err = strconv.Atoi(h.Year)
	if err != nil || year < 1 {
		return 0, 0, 0, fmt.Errorf("hijri year %q invalid", h.Year)
	}
	if h.Month.Number < 1 || h.Month.Number > 12 {
		return 0, 0, 0, fmt.Errorf("hijri month %d out of range", h.Month.Number)
	}
	return day, h.Month.Number, year, nil
}

// GregorianDate identifies the day of a calendar entry.
type GregorianDate struct {
	Date string `json:"date"` // "DD-MM-YYYY"
	Day  string `json:"day"`
}

// CalendarResponse is the body of the calendar endpoint: one Data per day
// of the month.
type CalendarResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   []Data `json:"data"`
}

// ConversionResponse is the body of the gToH endpoint.
type ConversionResponse struct {
	Code   int      `json:"code"`
	Status string   `json:"status"`
	Data   DateInfo `json:"data"`
}
