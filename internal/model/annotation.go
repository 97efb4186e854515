package model

import (
	"strings"

	"github.com/sells-group/coronalert/internal/risk"
)

// LocationAnnotation is a presentation-ready projection of a LocationRecord
// with pre-formatted counts and a parsed map coordinate.
type LocationAnnotation struct {
	CountryName  string              `json:"country" yaml:"country"`
	ProvinceName string              `json:"province,omitempty" yaml:"province,omitempty"`
	CityName     *string             `json:"city,omitempty" yaml:"city,omitempty"`
	RiskLevel    risk.Classification `json:"risk" yaml:"risk"`
	TodaysCases  string              `json:"todays_cases" yaml:"todays_cases"`
	TodaysDeaths string              `json:"todays_deaths" yaml:"todays_deaths"`
	TotalCases   string              `json:"total_cases" yaml:"total_cases"`
	TotalDeaths  string              `json:"total_deaths" yaml:"total_deaths"`
	DateToday    string              `json:"date" yaml:"date"`
	Coordinate   Point               `json:"coordinate" yaml:"coordinate"`
}

// LocationName joins "city, province, country".
func (a LocationAnnotation) LocationName() string {
	return joinName(a.CityName, a.ProvinceName, a.CountryName, false)
}

// LocationNameReversed joins "country, province, city", the order used for search.
func (a LocationAnnotation) LocationNameReversed() string {
	return joinName(a.CityName, a.ProvinceName, a.CountryName, true)
}

// FilterAnnotations returns the annotations whose reversed name contains text,
// case-insensitively. Empty text returns all annotations.
func FilterAnnotations(annotations []LocationAnnotation, text string) []LocationAnnotation {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return annotations
	}
	var out []LocationAnnotation
	for _, a := range annotations {
		if strings.Contains(strings.ToLower(a.LocationNameReversed()), needle) {
			out = append(out, a)
		}
	}
	return out
}

// RegionSummary is an entry of the lightweight regions lookup list.
type RegionSummary struct {
	ISO  string `json:"iso" yaml:"iso"`
	Name string `json:"name" yaml:"name"`
}

// Selection is the resolver's answer for one fix. RecordIndex indexes the full
// record list. When access is restricted, Restricted lists the indices forming
// the free region and RestrictedIndex points into Restricted.
type Selection struct {
	RecordIndex     int   `json:"record_index" yaml:"record_index"`
	Restricted      []int `json:"restricted,omitempty" yaml:"restricted,omitempty"`
	RestrictedIndex *int  `json:"restricted_index,omitempty" yaml:"restricted_index,omitempty"`
}

// IsRestricted reports whether the selection was computed without full access.
func (s Selection) IsRestricted() bool {
	return s.RestrictedIndex != nil
}

// VisibleIndex returns the index into the full list the presentation layer
// should highlight: the restricted nearest when restricted, else RecordIndex.
func (s Selection) VisibleIndex() int {
	if s.RestrictedIndex != nil {
		return s.Restricted[*s.RestrictedIndex]
	}
	return s.RecordIndex
}
