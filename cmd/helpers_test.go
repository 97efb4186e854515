package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/coronalert/internal/alert"
	"github.com/sells-group/coronalert/internal/entitlement"
	"github.com/sells-group/coronalert/internal/model"
	"github.com/sells-group/coronalert/internal/store"
	"github.com/sells-group/coronalert/pkg/covidapi"
)

func strPtr(s string) *string { return &s }

func testRecord(country, province, city, lat, lon string, total, newCases int64) model.LocationRecord {
	r := model.LocationRecord{
		DateString:          "2020-08-19",
		ISO:                 "US",
		CountryName:         country,
		Province:            province,
		ProvinceCoordinates: model.NewCoordinates(strPtr(lat), strPtr(lon)),
		CountryCases:        model.Cases{TotalCases: total, NewCases: newCases},
	}
	if city != "" {
		coords := model.NewCoordinates(strPtr(lat), strPtr(lon))
		r.CityName = strPtr(city)
		r.CityCoordinates = &coords
		r.CityCases = &model.Cases{TotalCases: total, NewCases: newCases}
	}
	return r
}

func testResult(records ...model.LocationRecord) *alert.Result {
	annotations := make([]model.LocationAnnotation, 0, len(records))
	for _, r := range records {
		p, _ := r.Coordinates().Point()
		annotations = append(annotations, r.Annotation(p))
	}
	return &alert.Result{Records: records, Annotations: annotations}
}

func sampleResult() *alert.Result {
	return testResult(
		testRecord("US", "New York", "", "40.7", "-74.0", 1000, 5),
		testRecord("US", "California", "Los Angeles", "34.05", "-118.25", 2000, 100),
		testRecord("US", "California", "San Francisco", "37.77", "-122.42", 500, 1),
	)
}

func newTestGate(t *testing.T) *entitlement.StoreGate {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	gate, err := entitlement.New(context.Background(), st)
	require.NoError(t, err)
	return gate
}

type fakeFetcher struct {
	out alert.AlertsOutcome
}

func (f fakeFetcher) FetchAlertsAsync(context.Context, covidapi.Filters) <-chan alert.AlertsOutcome {
	ch := make(chan alert.AlertsOutcome, 1)
	ch <- f.out
	close(ch)
	return ch
}
