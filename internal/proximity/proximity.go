// Package proximity finds the location record closest to a fix and applies the
// free-tier region restriction.
package proximity

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/rotisserie/eris"

	"github.com/sells-group/coronalert/internal/model"
)

// ErrEmptyResultSet is returned by Resolve when no record has usable coordinates.
var ErrEmptyResultSet = eris.New("proximity: no record with valid coordinates")

// Distance returns the great-circle surface distance between a and b in metres.
func Distance(a, b model.Point) float64 {
	return geo.DistanceHaversine(toOrb(a), toOrb(b))
}

func toOrb(p model.Point) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// Nearest returns the index of the record closest to fix. Records without valid
// coordinates are skipped and ties keep the lowest index. ok is false when no
// record qualifies.
func Nearest(fix model.Point, records []model.LocationRecord) (int, bool) {
	best, bestDist := -1, 0.0
	for i := range records {
		p, ok := records[i].Coordinates().Point()
		if !ok {
			continue
		}
		d := Distance(fix, p)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// NearestIn is Nearest restricted to the records at the given indices. The
// returned position indexes subset, not records.
func NearestIn(fix model.Point, records []model.LocationRecord, subset []int) (int, bool) {
	best, bestDist := -1, 0.0
	for pos, idx := range subset {
		if idx < 0 || idx >= len(records) {
			continue
		}
		p, ok := records[idx].Coordinates().Point()
		if !ok {
			continue
		}
		d := Distance(fix, p)
		if best < 0 || d < bestDist {
			best, bestDist = pos, d
		}
	}
	return best, best >= 0
}

// RestrictedSubset lists, in input order, the records sharing the anchor's
// country and province, or its whole country when the anchor has no province.
// Province names repeat across countries, so both must match.
func RestrictedSubset(records []model.LocationRecord, anchor int) []int {
	if anchor < 0 || anchor >= len(records) {
		return nil
	}
	a := records[anchor]
	var out []int
	for i, r := range records {
		if r.CountryName != a.CountryName {
			continue
		}
		if a.Province == "" || r.Province == a.Province {
			out = append(out, i)
		}
	}
	return out
}

// Resolve computes the selection for fix. Without entitlement the global
// nearest only picks the free region, and the nearest record is then ranked
// again within that region.
func Resolve(fix model.Point, records []model.LocationRecord, entitled bool) (model.Selection, error) {
	idx, ok := Nearest(fix, records)
	if !ok {
		return model.Selection{}, ErrEmptyResultSet
	}
	sel := model.Selection{RecordIndex: idx}
	if entitled {
		return sel, nil
	}

	subset := RestrictedSubset(records, idx)
	pos, ok := NearestIn(fix, records, subset)
	if !ok {
		return model.Selection{}, ErrEmptyResultSet
	}
	sel.Restricted = subset
	sel.RestrictedIndex = &pos
	return sel, nil
}

// Candidate is a record index paired with its distance from the fix.
type Candidate struct {
	Index  int     `json:"index" yaml:"index"`
	Meters float64 `json:"meters" yaml:"meters"`
}

// Ranked returns up to limit records ordered by distance from fix, ties in
// input order. A limit <= 0 returns every valid record.
func Ranked(fix model.Point, records []model.LocationRecord, limit int) []Candidate {
	out := make([]Candidate, 0, len(records))
	for i := range records {
		p, ok := records[i].Coordinates().Point()
		if !ok {
			continue
		}
		out = append(out, Candidate{Index: i, Meters: Distance(fix, p)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Meters < out[j].Meters })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
