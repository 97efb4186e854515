// Package model holds the per-location entities produced by a fetch.
package model

import (
	"strings"
	"time"

	"github.com/sells-group/coronalert/internal/risk"
)

// DateLayout is the report date format used by the API.
const DateLayout = "2006-01-02"

// longDateLayout mirrors a long-style localized date, e.g. "August 19, 2020".
const longDateLayout = "January 2, 2006"

// LocationRecord is one reportable place: a city when the API region lists
// cities, otherwise the province or country aggregate. Records are built by the
// decoder and never modified afterwards.
type LocationRecord struct {
	DateString          string       `json:"date" yaml:"date"`
	ISO                 string       `json:"iso" yaml:"iso"`
	CountryName         string       `json:"country" yaml:"country"`
	Province            string       `json:"province,omitempty" yaml:"province,omitempty"`
	CityName            *string      `json:"city,omitempty" yaml:"city,omitempty"`
	ProvinceCoordinates Coordinates  `json:"province_coordinates" yaml:"province_coordinates"`
	CityCoordinates     *Coordinates `json:"city_coordinates,omitempty" yaml:"city_coordinates,omitempty"`
	CountryCases        Cases        `json:"country_cases" yaml:"country_cases"`
	CityCases           *Cases       `json:"city_cases,omitempty" yaml:"city_cases,omitempty"`
	FatalityRate        float64      `json:"fatality_rate" yaml:"fatality_rate"`
}

// Date parses DateString. ok is false when the API sent something other than YYYY-MM-DD.
func (r LocationRecord) Date() (time.Time, bool) {
	t, err := time.Parse(DateLayout, r.DateString)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateFormatted renders the report date in long form, falling back to the raw string.
func (r LocationRecord) DateFormatted() string {
	t, ok := r.Date()
	if !ok {
		return r.DateString
	}
	return t.Format(longDateLayout)
}

// Coordinates returns the city coordinates when present, else the province coordinates.
func (r LocationRecord) Coordinates() Coordinates {
	if r.CityCoordinates != nil {
		return *r.CityCoordinates
	}
	return r.ProvinceCoordinates
}

// Cases returns the city counts when present, else the country counts.
func (r LocationRecord) Cases() Cases {
	if r.CityCases != nil {
		return *r.CityCases
	}
	return r.CountryCases
}

// City returns the city name or "".
func (r LocationRecord) City() string {
	if r.CityName == nil {
		return ""
	}
	return *r.CityName
}

// LocationName joins "city, province, country", skipping empty parts.
func (r LocationRecord) LocationName() string {
	return joinName(r.CityName, r.Province, r.CountryName, false)
}

// RiskRate is newCases/totalCases of Cases(), clamped to zero.
func (r LocationRecord) RiskRate() float64 {
	c := r.Cases()
	return risk.Rate(c.NewCases, c.TotalCases)
}

// RiskRatePercent is RiskRate scaled to percent.
func (r LocationRecord) RiskRatePercent() float64 {
	return r.RiskRate() * 100
}

// RiskLevel classifies RiskRatePercent.
func (r LocationRecord) RiskLevel() risk.Classification {
	return risk.Classify(r.RiskRatePercent())
}

// Annotation projects the record for map and search consumers. The caller
// supplies the parsed map coordinate.
func (r LocationRecord) Annotation(at Point) LocationAnnotation {
	c := r.Cases()
	return LocationAnnotation{
		CountryName:  r.CountryName,
		ProvinceName: r.Province,
		CityName:     r.CityName,
		RiskLevel:    r.RiskLevel(),
		TodaysCases:  c.NewCasesString(),
		TodaysDeaths: c.NewDeathsString(),
		TotalCases:   c.TotalCasesString(),
		TotalDeaths:  c.TotalDeathsString(),
		DateToday:    r.DateFormatted(),
		Coordinate:   at,
	}
}

func joinName(city *string, province, country string, reversed bool) string {
	parts := make([]string, 0, 3)
	if city != nil {
		parts = append(parts, *city)
	}
	if province != "" {
		parts = append(parts, province)
	}
	parts = append(parts, country)
	if reversed {
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
	}
	return strings.Join(parts, ", ")
}
