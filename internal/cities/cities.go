// Package cities is the table of supported Moroccan cities.
package cities

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownCity is returned by Lookup for names not in the table.
var ErrUnknownCity = errors.New("unknown city")

// DefaultName is the city used when none is configured.
const DefaultName = "Casablanca"

// City is one supported location.
type City struct {
	ID     int
	Name   string // English name, also the canonical key
	NameAR string
	NameFR string
	Lat    float64
	Lon    float64
}

// Display returns the city name in lang (en, ar, fr).
func (c City) Display(lang string) string {
	switch lang {
	case "ar":
		return c.NameAR
	case "fr":
		return c.NameFR
	}
	return c.Name
}

var index = map[string]int{}

func init() {
	for i, c := range table {
		for _, n := range []string{c.Name, c.NameAR, c.NameFR} {
			index[normalize(n)] = i
		}
	}
}

// normalize folds case and drops the separators that vary between spellings
// ("Tan Tan", "Tan-Tan", "tantan").
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(" ", "", "-", "", "'", "", "é", "e", "è", "e")
	return r.Replace(s)
}

// All returns every city sorted by English name.
func All() []City {
	out := make([]City, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a city by any of its names, or by its site id.
func Lookup(name string) (City, error) {
	if i, ok := index[normalize(name)]; ok {
		return table[i], nil
	}
	if id, err := strconv.Atoi(strings.TrimSpace(name)); err == nil {
		if c, ok := ByID(id); ok {
			return c, nil
		}
	}
	return City{}, fmt.Errorf("%w: %q", ErrUnknownCity, name)
}

// ByID finds a city by its site id.
func ByID(id int) (City, bool) {
	for _, c := range table {
		if c.ID == id {
			return c, true
		}
	}
	return City{}, false
}

// Default returns the default city.
func Default() City {
	c, _ := Lookup(DefaultName)
	return c
}

// Search returns the cities whose name in any language contains query,
// sorted by English name. An empty query matches everything.
func Search(query string) []City {
	q := normalize(query)
	var out []City
	for _, c := range All() {
		if strings.Contains(normalize(c.Name), q) ||
			strings.Contains(normalize(c.NameFR), q) ||
			strings.Contains(normalize(c.NameAR), q) {
			out = append(out, c)
		}
	}
	return out
}

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Nearest returns the table city closest to (lat, lon) and its distance.
func Nearest(lat, lon float64) (City, float64) {
	best, bestD := table[0], math.Inf(1)
	for _, c := range table {
		if d := DistanceKm(lat, lon, c.Lat, c.Lon); d < bestD {
			best, bestD = c, d
		}
	}
	return best, bestD
}
