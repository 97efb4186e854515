package covidapi

// ReportsResponse is the body of GET /reports.
type ReportsResponse struct {
	Data []Report `json:"data"`
}

// Report is one country/province entry of the reports payload.
type Report struct {
	Date          string  `json:"date"`
	Confirmed     int64   `json:"confirmed"`
	Deaths        int64   `json:"deaths"`
	Recovered     int64   `json:"recovered"`
	ConfirmedDiff int64   `json:"confirmed_diff"`
	DeathsDiff    int64   `json:"deaths_diff"`
	RecoveredDiff int64   `json:"recovered_diff"`
	LastUpdate    string  `json:"last_update"`
	Active        int64   `json:"active"`
	ActiveDiff    int64   `json:"active_diff"`
	FatalityRate  float64 `json:"fatality_rate"`
	Region        Region  `json:"region"`
}

// Region identifies the country and province a report covers. Lat and Long are
// strings in the payload and may be null.
type Region struct {
	ISO      string  `json:"iso"`
	Name     string  `json:"name"`
	Province string  `json:"province"`
	Lat      *string `json:"lat"`
	Long     *string `json:"long"`
	Cities   []City  `json:"cities"`
}

// City is a sub-province breakdown, currently only published for the US.
type City struct {
	Name          string  `json:"name"`
	Date          string  `json:"date"`
	FIPS          *int    `json:"fips"`
	Lat           *string `json:"lat"`
	Long          *string `json:"long"`
	Confirmed     int64   `json:"confirmed"`
	Deaths        int64   `json:"deaths"`
	ConfirmedDiff int64   `json:"confirmed_diff"`
	DeathsDiff    int64   `json:"deaths_diff"`
	LastUpdate    string  `json:"last_update"`
}

// RegionsResponse is the body of GET /regions.
type RegionsResponse struct {
	Data []RegionOnly `json:"data"`
}

// RegionOnly is an {iso, name} pair from the regions endpoint.
type RegionOnly struct {
	ISO  string `json:"iso"`
	Name string `json:"name"`
}
