package domain

import (
	"sort"
	"strconv"
	"time"
)

// Domain contains core models and interfaces.

// Record is one region's case statistics. Regional records only carry the
// coordinates, counts and update time; the country-wide "All" record adds
// the descriptive fields.
type Record struct {
	Lat       string `json:"lat" yaml:"lat"`
	Long      string `json:"long" yaml:"long"`
	Confirmed int64  `json:"confirmed" yaml:"confirmed"`
	Recovered int64  `json:"recovered" yaml:"recovered"`
	Deaths    int64  `json:"deaths" yaml:"deaths"`
	Updated   string `json:"updated,omitempty" yaml:"updated,omitempty"`

	Country        string  `json:"country,omitempty" yaml:"country,omitempty"`
	Population     int64   `json:"population,omitempty" yaml:"population,omitempty"`
	SqKmArea       float64 `json:"sq_km_area,omitempty" yaml:"sq_km_area,omitempty"`
	LifeExpectancy string  `json:"life_expectancy,omitempty" yaml:"life_expectancy,omitempty"`
	Elevation      string  `json:"elevation_in_meters,omitempty" yaml:"elevation_in_meters,omitempty"`
	Continent      string  `json:"continent,omitempty" yaml:"continent,omitempty"`
	Abbreviation   string  `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
	Location       string  `json:"location,omitempty" yaml:"location,omitempty"`
	ISO            string  `json:"iso,omitempty" yaml:"iso,omitempty"`
	CapitalCity    string  `json:"capital_city,omitempty" yaml:"capital_city,omitempty"`
}

// Columns names the table columns produced by Record.Row.
var Columns = []string{"Lat", "Long", "Confirmed", "Recovered", "Deaths"}

// Row renders the record as table cells in Columns order.
func (r Record) Row() []string {
	return []string{
		r.Lat,
		r.Long,
		strconv.FormatInt(r.Confirmed, 10),
		strconv.FormatInt(r.Recovered, 10),
		strconv.FormatInt(r.Deaths, 10),
	}
}

// Snapshot is one fetched response: every region of a country at FetchedAt.
type Snapshot struct {
	Country   string
	FetchedAt time.Time
	Records   map[string]Record
}

// Region returns the record stored under name.
func (s Snapshot) Region(name string) (Record, bool) {
	rec, ok := s.Records[name]
	return rec, ok
}

// Regions returns the region names in lexical order.
func (s Snapshot) Regions() []string {
	out := make([]string, 0, len(s.Records))
	for name := range s.Records {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
