package domain

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// swathGranule builds a 2x2 swath with rank-2 coordinate grids centered
// near (35, -100), every cell holding the same value.
func swathGranule(p Product, value float64) Granule {
	return Granule{
		Product:   p,
		Values:    Array{Shape: []int{2, 2}, Data: []float64{value, value, value, value}},
		Latitude:  Array{Shape: []int{2, 2}, Data: []float64{35.0, 35.0, 35.05, 35.05}},
		Longitude: Array{Shape: []int{2, 2}, Data: []float64{-100.0, -99.95, -100.0, -99.95}},
	}
}

func TestAssess_FullProductSet(t *testing.T) {
	frozen := time.Date(2026, time.August, 14, 18, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	set := GranuleSet{
		RequestID:  "req-1",
		ObservedAt: frozen.Add(-30 * time.Minute),
		Granules: []Granule{
			swathGranule(ProductHCHO, 4.0e16),   // fully activated
			swathGranule(ProductAerosol, 5.0),   // full smoke intensity
			swathGranule(ProductNO2, 5e14),      // no suppression
		},
	}

	a, err := Assess(set, AssessOptions{SampleStep: 1, Tolerance: 0.01}, discardLogger())
	require.NoError(t, err)

	assert.False(t, a.InsufficientData)
	assert.Equal(t, "req-1", a.RequestID)
	assert.Equal(t, frozen, a.GeneratedAt)
	require.Len(t, a.Points, 4)
	assert.Equal(t, 4, a.LevelCounts[LevelExtreme])
	assert.Equal(t, 4, a.ProductSamples[ProductHCHO])
	assert.Equal(t, 4, a.ProductSamples[ProductAerosol])

	pt := a.Points[0]
	assert.Equal(t, 10.0, pt.ThreatScore)
	assert.Equal(t, LevelExtreme, pt.Level)
	assert.Equal(t, "#800080", pt.Color)
	assert.Equal(t, 4.0e16, pt.HCHO)
	assert.Equal(t, 5.0, pt.Aerosol)
	assert.Equal(t, 5e14, pt.NO2)
	assert.Equal(t, 35.0, pt.Latitude)
	assert.Equal(t, -100.0, pt.Longitude)
}

func TestAssess_AerosolGranuleMissing(t *testing.T) {
	set := GranuleSet{
		Granules: []Granule{
			swathGranule(ProductHCHO, 4.0e16),
			swathGranule(ProductNO2, 5e14),
		},
	}

	a, err := Assess(set, AssessOptions{SampleStep: 1, Tolerance: 0.01}, discardLogger())
	require.NoError(t, err)

	require.NotEmpty(t, a.Points)
	pt := a.Points[0]
	assert.Equal(t, 5.0, pt.ThreatScore, "unavailable aerosol contributes the moderate default")
	assert.Equal(t, LevelMedium, pt.Level)
	assert.Equal(t, 0.5, pt.Aerosol, "reported aerosol slot shows the assumed default")
}

func TestAssess_SecondaryOutOfTolerance(t *testing.T) {
	aerosol := swathGranule(ProductAerosol, 5.0)
	// Shift the aerosol swath a full degree away from the anchors.
	for i := range aerosol.Latitude.Data {
		aerosol.Latitude.Data[i] += 1.0
	}

	set := GranuleSet{
		Granules: []Granule{
			swathGranule(ProductHCHO, 4.0e16),
			aerosol,
		},
	}

	a, err := Assess(set, AssessOptions{SampleStep: 1, Tolerance: 0.01}, discardLogger())
	require.NoError(t, err)

	// Present-but-unmatched aerosol defaults to a measured 0.0, which
	// normalizes to an inert but nonzero smoke intensity.
	pt := a.Points[0]
	assert.Equal(t, 0.0, pt.Aerosol)
	assert.InDelta(t, 10.0/6.0, pt.ThreatScore, 0.01) // aerosol_norm(0.0) = 1/6
}

func TestAssess_EmptyPrimaryIsInsufficientData(t *testing.T) {
	hcho := swathGranule(ProductHCHO, TempoFillValue) // every cell is fill

	a, err := Assess(GranuleSet{Granules: []Granule{hcho}}, AssessOptions{SampleStep: 1}, discardLogger())
	require.NoError(t, err, "no usable primary data is a reportable outcome, not an error")

	assert.True(t, a.InsufficientData)
	assert.Contains(t, a.Reason, "insufficient data")
	assert.Empty(t, a.Points)
	assert.NotNil(t, a.Points, "empty result set, not absent")
}

func TestAssess_MissingPrimaryIsFatal(t *testing.T) {
	set := GranuleSet{
		RequestID: "req-2",
		Granules:  []Granule{swathGranule(ProductNO2, 5e15)},
	}

	_, err := Assess(set, AssessOptions{SampleStep: 1}, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary product hcho is missing")
}

func TestAssess_MalformedSecondaryDegrades(t *testing.T) {
	badAerosol := swathGranule(ProductAerosol, 5.0)
	badAerosol.Latitude.Shape = []int{3, 3} // no longer matches the swath

	set := GranuleSet{
		Granules: []Granule{
			swathGranule(ProductHCHO, 4.0e16),
			badAerosol,
		},
	}

	a, err := Assess(set, AssessOptions{SampleStep: 1, Tolerance: 0.01}, discardLogger())
	require.NoError(t, err, "a malformed secondary granule must not abort the assessment")

	require.NotEmpty(t, a.Points)
	assert.Equal(t, 0.5, a.Points[0].Aerosol, "degraded product behaves as unavailable")
}

func TestAssess_MalformedPrimaryIsFatal(t *testing.T) {
	badHCHO := swathGranule(ProductHCHO, 4.0e16)
	badHCHO.Latitude.Shape = []int{3, 3}

	_, err := Assess(GranuleSet{Granules: []Granule{badHCHO}}, AssessOptions{SampleStep: 1}, discardLogger())
	require.Error(t, err)

	var mge *MalformedGridError
	assert.ErrorAs(t, err, &mge)
}

func TestAssess_MergesGranulesPerProduct(t *testing.T) {
	far := swathGranule(ProductHCHO, 2e16)
	for i := range far.Latitude.Data {
		far.Latitude.Data[i] += 5.0
	}

	set := GranuleSet{
		Granules: []Granule{
			swathGranule(ProductHCHO, 4.0e16),
			far, // second HCHO granule from a later scan
		},
	}

	a, err := Assess(set, AssessOptions{SampleStep: 1}, discardLogger())
	require.NoError(t, err)
	assert.Len(t, a.Points, 8)
	assert.Equal(t, 8, a.ProductSamples[ProductHCHO])
}
