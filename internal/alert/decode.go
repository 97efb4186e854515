package alert

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

// Decode flattens a reports payload into index-aligned records and annotations.
//
// Each valid city becomes a record carrying both the city and the country
// counts. A region with no cities becomes one province-level record. Rows whose
// coordinates do not parse are dropped, and a region whose cities are all
// invalid yields nothing: the province aggregate is only used when the region
// lists no cities at all.
func Decode(payload *covidapi.ReportsResponse) ([]model.LocationRecord, []model.LocationAnnotation) {
	if payload == nil {
		return nil, nil
	}

	records := make([]model.LocationRecord, 0, len(payload.Data))
	annotations := make([]model.LocationAnnotation, 0, len(payload.Data))

	for _, rep := range payload.Data {
		base := model.LocationRecord{
			DateString:          rep.Date,
			ISO:                 rep.Region.ISO,
			CountryName:         rep.Region.Name,
			Province:            rep.Region.Province,
			ProvinceCoordinates: model.NewCoordinates(rep.Region.Lat, rep.Region.Long),
			CountryCases: model.Cases{
				TotalCases:  rep.Confirmed,
				TotalDeaths: rep.Deaths,
				NewCases:    rep.ConfirmedDiff,
				NewDeaths:   rep.DeathsDiff,
			},
			FatalityRate: rep.FatalityRate,
		}

		for _, city := range rep.Region.Cities {
			coords := model.NewCoordinates(city.Lat, city.Long)
			at, ok := coords.Point()
			if !ok {
				continue
			}
			name := city.Name
			rec := base
			rec.CityName = &name
			rec.CityCoordinates = &coords
			rec.CityCases = &model.Cases{
				TotalCases:  city.Confirmed,
				TotalDeaths: city.Deaths,
				NewCases:    city.ConfirmedDiff,
				NewDeaths:   city.DeathsDiff,
			}
			records = append(records, rec)
			annotations = append(annotations, rec.Annotation(at))
		}

		if len(rep.Region.Cities) == 0 {
			at, ok := base.ProvinceCoordinates.Point()
			if !ok {
				continue
			}
			records = append(records, base)
			annotations = append(annotations, base.Annotation(at))
		}
	}
	return records, annotations
}

// DecodeBytes unmarshals a raw reports body and flattens it. Schema mismatches
// are returned as a FetchError of kind KindDecode.
func DecodeBytes(body []byte) ([]model.LocationRecord, []model.LocationAnnotation, error) {
	var payload covidapi.ReportsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, &FetchError{Kind: KindDecode, Err: eris.Wrap(err, "unmarshal reports")}
	}
	if payload.Data == nil {
		return nil, nil, &FetchError{Kind: KindDecode, Err: eris.New("missing data array")}
	}
	records, annotations := Decode(&payload)
	return records, annotations, nil
}

// DecodeRegions converts the regions payload into lookup summaries, preserving order.
func DecodeRegions(payload *covidapi.RegionsResponse) []model.RegionSummary {
	if payload == nil {
		return nil
	}
	out := make([]model.RegionSummary, 0, len(payload.Data))
	for _, r := range payload.Data {
		out = append(out, model.RegionSummary{ISO: r.ISO, Name: r.Name})
	}
	return out
}
