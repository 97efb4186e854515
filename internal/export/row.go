// Package export renders fetched locations as GeoJSON, XLSX and YAML.
package export

import (
	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/internal/risk"
)

// Row is the flat, presentation-neutral view of a record shared by the
// tabular exports.
type Row struct {
	Location     string       `yaml:"location" json:"location"`
	ISO          string       `yaml:"iso" json:"iso"`
	Date         string       `yaml:"date" json:"date"`
	TotalCases   int64        `yaml:"total_cases" json:"total_cases"`
	TotalDeaths  int64        `yaml:"total_deaths" json:"total_deaths"`
	NewCases     int64        `yaml:"new_cases" json:"new_cases"`
	NewDeaths    int64        `yaml:"new_deaths" json:"new_deaths"`
	RiskPercent  float64      `yaml:"risk_percent" json:"risk_percent"`
	Risk         risk.Label   `yaml:"risk" json:"risk"`
	SubBand      risk.SubBand `yaml:"sub_band" json:"sub_band"`
	FatalityRate float64      `yaml:"fatality_rate" json:"fatality_rate"`
	Latitude     float64      `yaml:"latitude" json:"latitude"`
	Longitude    float64      `yaml:"longitude" json:"longitude"`
}

// Rows converts records in order.
func Rows(records []model.LocationRecord) []Row {
	out := make([]Row, 0, len(records))
	for i := range records {
		r := records[i]
		c := r.Cases()
		level := r.RiskLevel()
		p, _ := r.Coordinates().Point()
		out = append(out, Row{
			Location:     r.LocationName(),
			ISO:          r.ISO,
			Date:         r.DateString,
			TotalCases:   c.TotalCases,
			TotalDeaths:  c.TotalDeaths,
			NewCases:     c.NewCases,
			NewDeaths:    c.NewDeaths,
			RiskPercent:  r.RiskRatePercent(),
			Risk:         level.Label,
			SubBand:      level.SubBand,
			FatalityRate: r.FatalityRate,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
		})
	}
	return out
}
