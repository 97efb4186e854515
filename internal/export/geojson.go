package export

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/internal/risk"
)

// ColorFunc maps a sub-band to a presentation color.
type ColorFunc func(risk.SubBand) string

// GeoJSON encodes annotations as a FeatureCollection of map pins, one Point
// feature per annotation in input order. When color is non-nil each feature
// carries a marker-color property.
func GeoJSON(annotations []model.LocationAnnotation, color ColorFunc) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(annotations))}
	for _, a := range annotations {
		pt := geom.NewPointFlat(geom.XY, []float64{a.Coordinate.Longitude, a.Coordinate.Latitude})
		props := map[string]interface{}{
			"name":          a.LocationName(),
			"country":       a.CountryName,
			"risk":          string(a.RiskLevel.Label),
			"sub_band":      string(a.RiskLevel.SubBand),
			"todays_cases":  a.TodaysCases,
			"todays_deaths": a.TodaysDeaths,
			"total_cases":   a.TotalCases,
			"total_deaths":  a.TotalDeaths,
			"date":          a.DateToday,
		}
		if a.ProvinceName != "" {
			props["province"] = a.ProvinceName
		}
		if a.CityName != nil {
			props["city"] = *a.CityName
		}
		if color != nil {
			props["marker-color"] = color(a.RiskLevel.SubBand)
		}
		fc.Features = append(fc.Features, &geojson.Feature{Geometry: pt, Properties: props})
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "export: encode geojson")
	}
	return data, nil
}
