package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkSample(p Product, lat, lon, v float64) RawSample {
	return RawSample{Product: p, Latitude: lat, Longitude: lon, Value: v}
}

func TestCombine_NearestWithinTolerance(t *testing.T) {
	primary := []RawSample{mkSample(ProductHCHO, 35.0, -100.0, 2e16)}
	secondaries := map[Product][]RawSample{
		ProductAerosol: {
			mkSample(ProductAerosol, 35.008, -100.0, 1.0), // 0.008° away
			mkSample(ProductAerosol, 35.002, -100.0, 2.0), // 0.002° away, nearest
		},
		ProductNO2: {
			mkSample(ProductNO2, 35.001, -100.001, 8e15),
		},
	}

	combined, stats := Combine(primary, secondaries, 0.01)
	require.Len(t, combined, 1)

	cs := combined[0]
	assert.Equal(t, 35.0, cs.Latitude)
	assert.Equal(t, -100.0, cs.Longitude)
	assert.Equal(t, 2e16, cs.HCHO)
	require.NotNil(t, cs.Aerosol)
	assert.Equal(t, 2.0, *cs.Aerosol)
	require.NotNil(t, cs.NO2)
	assert.Equal(t, 8e15, *cs.NO2)
	assert.Equal(t, 1, stats.Matched[ProductAerosol])
	assert.Equal(t, 1, stats.Matched[ProductNO2])
}

func TestCombine_ToleranceBoundary(t *testing.T) {
	primary := []RawSample{mkSample(ProductHCHO, 0, 0, 1e16)}

	t.Run("exactly tolerance is accepted", func(t *testing.T) {
		secondaries := map[Product][]RawSample{
			ProductAerosol: {mkSample(ProductAerosol, 0, 0.01, 3.5)},
		}
		combined, _ := Combine(primary, secondaries, 0.01)
		require.NotNil(t, combined[0].Aerosol)
		assert.Equal(t, 3.5, *combined[0].Aerosol)
	})

	t.Run("just beyond tolerance defaults to zero", func(t *testing.T) {
		secondaries := map[Product][]RawSample{
			ProductAerosol: {mkSample(ProductAerosol, 0, 0.0100001, 3.5)},
		}
		combined, stats := Combine(primary, secondaries, 0.01)
		require.NotNil(t, combined[0].Aerosol)
		assert.Equal(t, 0.0, *combined[0].Aerosol)
		assert.Equal(t, 1, stats.Defaulted[ProductAerosol])
	})
}

func TestCombine_TieBreaksByScanOrder(t *testing.T) {
	primary := []RawSample{mkSample(ProductHCHO, 0, 0, 1e16)}
	// Two secondaries at identical distance on opposite sides.
	secondaries := map[Product][]RawSample{
		ProductNO2: {
			mkSample(ProductNO2, 0, 0.005, 111.0),
			mkSample(ProductNO2, 0, -0.005, 222.0),
		},
	}

	combined, _ := Combine(primary, secondaries, 0.01)
	require.NotNil(t, combined[0].NO2)
	assert.Equal(t, 111.0, *combined[0].NO2, "first-found minimum wins ties")
}

func TestCombine_AbsentProductIsUnavailable(t *testing.T) {
	primary := []RawSample{mkSample(ProductHCHO, 35, -100, 1e16)}

	combined, _ := Combine(primary, map[Product][]RawSample{}, 0.01)
	require.Len(t, combined, 1)
	assert.Nil(t, combined[0].Aerosol, "absent aerosol point set means not measured")
	assert.Nil(t, combined[0].NO2)
}

func TestCombine_EmptyPrimary(t *testing.T) {
	combined, _ := Combine(nil, map[Product][]RawSample{
		ProductNO2: {mkSample(ProductNO2, 1, 1, 5e15)},
	}, 0.01)
	assert.Empty(t, combined)
}

func TestCombine_NegativeCoordinates(t *testing.T) {
	// Bucket keys use floor division; negative coordinates must land in the
	// right cells so neighbours across zero are still found.
	primary := []RawSample{mkSample(ProductHCHO, -0.001, -0.001, 1e16)}
	secondaries := map[Product][]RawSample{
		ProductAerosol: {mkSample(ProductAerosol, 0.001, 0.001, 4.0)},
	}

	combined, _ := Combine(primary, secondaries, 0.01)
	require.NotNil(t, combined[0].Aerosol)
	assert.Equal(t, 4.0, *combined[0].Aerosol)
}

func TestPointIndex_MatchesLinearScan(t *testing.T) {
	// The bucket index is a performance substitution: its results must be
	// identical to a naive linear scan for every query.
	points := []RawSample{
		mkSample(ProductNO2, 10.000, 20.000, 1),
		mkSample(ProductNO2, 10.004, 20.003, 2),
		mkSample(ProductNO2, 10.009, 19.998, 3),
		mkSample(ProductNO2, 10.020, 20.020, 4),
		mkSample(ProductNO2, 9.9995, 20.0005, 5),
	}
	const tol = 0.01
	idx := newPointIndex(points, tol)

	queries := []struct{ lat, lon float64 }{
		{10.000, 20.000},
		{10.005, 20.000},
		{10.015, 20.015},
		{10.100, 20.100},
		{9.999, 20.001},
	}

	for _, q := range queries {
		got, gotOK := idx.nearest(q.lat, q.lon, tol)
		want, wantOK := linearNearest(points, q.lat, q.lon, tol)
		assert.Equal(t, wantOK, gotOK, "query (%v, %v)", q.lat, q.lon)
		assert.Equal(t, want, got, "query (%v, %v)", q.lat, q.lon)
	}
}

// linearNearest is the reference implementation: scan in order, keep the
// first strictly-smaller distance within tolerance.
func linearNearest(points []RawSample, lat, lon, tol float64) (float64, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, pt := range points {
		dist := math.Hypot(pt.Latitude-lat, pt.Longitude-lon)
		if dist <= tol && dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	if best < 0 {
		return 0, false
	}
	return points[best].Value, true
}
