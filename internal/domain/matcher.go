package domain

import "math"

// DefaultTolerance is the matching tolerance in degrees. It is small
// relative to the 0.02-0.1° product resolutions, which is what makes the
// flat Euclidean distance approximation below acceptable.
const DefaultTolerance = 0.01

// CombinedSample is one location carrying a value from every product
// considered. The coordinate is always taken verbatim from a primary (HCHO)
// sample, never interpolated.
//
// Aerosol and NO2 are nil when the product's point set was entirely absent
// for the assessment window ("not measured"). A present product that simply
// has no point within tolerance of the anchor resolves to 0.0, which the
// scoring engine treats as inert.
type CombinedSample struct {
	Latitude  float64
	Longitude float64
	HCHO      float64
	Aerosol   *float64
	NO2       *float64
}

// MatchStats counts nearest-neighbour outcomes per secondary product.
type MatchStats struct {
	Matched   map[Product]int
	Defaulted map[Product]int
}

// Combine aligns secondary point sets against the primary (HCHO) sequence,
// producing one combined sample per primary point. A secondary product
// missing from secondaries is reported as unavailable (nil) in every
// combined sample; a product that is present but has no point within
// tolerance of a given anchor defaults to 0.0 there.
//
// Distance is Euclidean in degree-space, not great-circle: a documented
// approximation that holds because tolerance is tiny compared to the
// product resolutions. A point at exactly tolerance is accepted. Ties are
// broken by the first-found minimum in scan order.
func Combine(primary []RawSample, secondaries map[Product][]RawSample, tolerance float64) ([]CombinedSample, MatchStats) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	stats := MatchStats{
		Matched:   map[Product]int{},
		Defaulted: map[Product]int{},
	}

	indexes := map[Product]*pointIndex{}
	for p, points := range secondaries {
		if len(points) > 0 {
			indexes[p] = newPointIndex(points, tolerance)
		}
	}

	combined := make([]CombinedSample, 0, len(primary))
	for _, anchor := range primary {
		cs := CombinedSample{
			Latitude:  anchor.Latitude,
			Longitude: anchor.Longitude,
			HCHO:      anchor.Value,
		}
		cs.Aerosol = resolveSecondary(indexes[ProductAerosol], anchor, tolerance, ProductAerosol, &stats)
		cs.NO2 = resolveSecondary(indexes[ProductNO2], anchor, tolerance, ProductNO2, &stats)
		combined = append(combined, cs)
	}
	return combined, stats
}

// resolveSecondary looks up the nearest secondary point for an anchor.
// A nil index means the product was not measured at all.
func resolveSecondary(idx *pointIndex, anchor RawSample, tolerance float64, p Product, stats *MatchStats) *float64 {
	if idx == nil {
		return nil
	}
	if v, ok := idx.nearest(anchor.Latitude, anchor.Longitude, tolerance); ok {
		stats.Matched[p]++
		return &v
	}
	stats.Defaulted[p]++
	v := 0.0
	return &v
}

// pointIndex is a spatial bucket index keyed by rounded coordinate. With a
// cell size equal to the tolerance, every point within tolerance of a query
// lives in the query's cell or one of its eight neighbours, so lookups scan
// at most nine buckets instead of the whole point set. The accept/reject
// and tie-break semantics are identical to a naive linear scan.
type pointIndex struct {
	cell    float64
	points  []RawSample
	buckets map[cellKey][]int // point indices in ascending scan order
}

type cellKey struct {
	row int
	col int
}

func newPointIndex(points []RawSample, cell float64) *pointIndex {
	idx := &pointIndex{
		cell:    cell,
		points:  points,
		buckets: make(map[cellKey][]int),
	}
	for i, pt := range points {
		k := idx.keyFor(pt.Latitude, pt.Longitude)
		idx.buckets[k] = append(idx.buckets[k], i)
	}
	return idx
}

func (idx *pointIndex) keyFor(lat, lon float64) cellKey {
	return cellKey{
		row: int(math.Floor(lat / idx.cell)),
		col: int(math.Floor(lon / idx.cell)),
	}
}

// nearest returns the value of the closest point within tolerance of
// (lat, lon). Equal distances resolve to the earliest point in the original
// scan order, matching the linear-scan tie-break exactly.
func (idx *pointIndex) nearest(lat, lon, tolerance float64) (float64, bool) {
	center := idx.keyFor(lat, lon)

	bestIdx := -1
	bestDist := math.Inf(1)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			k := cellKey{row: center.row + dr, col: center.col + dc}
			for _, i := range idx.buckets[k] {
				pt := idx.points[i]
				d := math.Hypot(pt.Latitude-lat, pt.Longitude-lon)
				if d > tolerance {
					continue
				}
				if d < bestDist || (d == bestDist && i < bestIdx) {
					bestDist = d
					bestIdx = i
				}
			}
		}
	}
	if bestIdx < 0 {
		return 0, false
	}
	return idx.points[bestIdx].Value, true
}
