package covidapi

import (
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// Filters narrows a reports query. Nil fields are not sent.
type Filters struct {
	RegionProvince *string `json:"region_province,omitempty"`
	ISO            *string `json:"iso,omitempty"`
	RegionName     *string `json:"region_name,omitempty"`
	CityName       *string `json:"city_name,omitempty"`
	Date           *string `json:"date,omitempty"` // YYYY-MM-DD
	Query          *string `json:"q,omitempty"`
}

// Validate rejects a date that is not YYYY-MM-DD with a *FilterError.
func (f Filters) Validate() error {
	if f.Date != nil {
		if _, err := time.Parse("2006-01-02", *f.Date); err != nil {
			return &FilterError{Field: "date", Value: *f.Date, Err: eris.Wrap(err, "want YYYY-MM-DD")}
		}
	}
	return nil
}

// Empty reports whether no filter is set.
func (f Filters) Empty() bool {
	return f.RegionProvince == nil && f.ISO == nil && f.RegionName == nil &&
		f.CityName == nil && f.Date == nil && f.Query == nil
}

// Values encodes the set filters as query parameters.
func (f Filters) Values() url.Values {
	q := url.Values{}
	set := func(key string, v *string) {
		if v != nil {
			q.Set(key, *v)
		}
	}
	set("region_province", f.RegionProvince)
	set("iso", f.ISO)
	set("region_name", f.RegionName)
	set("city_name", f.CityName)
	set("date", f.Date)
	set("q", f.Query)
	return q
}
