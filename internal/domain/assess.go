package domain

import (
	"fmt"
	"log/slog"
	"math"
)

// AssessOptions carries the configured defaults applied when a granule set
// does not override them.
type AssessOptions struct {
	SampleStep int
	Tolerance  float64
}

// DefaultSampleStep is the decimation stride used when neither the granule
// set nor the configuration specifies one.
const DefaultSampleStep = 20

// Assess runs the full pipeline for one granule set: per-product grid
// sampling, location matching against the HCHO anchor points, scoring, and
// classification.
//
// A sampling failure for a secondary product is logged and degrades that
// product to "unavailable" rather than failing the assessment; only a
// missing or malformed primary (HCHO) product is fatal. An HCHO point set
// that samples to zero points is not an error either: it yields an empty
// assessment annotated as insufficient data.
func Assess(set GranuleSet, opts AssessOptions, logger *slog.Logger) (Assessment, error) {
	step := set.SampleStep
	if step <= 0 {
		step = opts.SampleStep
	}
	if step <= 0 {
		step = DefaultSampleStep
	}
	tolerance := set.Tolerance
	if tolerance <= 0 {
		tolerance = opts.Tolerance
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	points, samples, err := sampleByProduct(set, step, logger)
	if err != nil {
		return Assessment{}, err
	}

	a := Assessment{
		RequestID:      set.RequestID,
		ObservedAt:     set.ObservedAt,
		GeneratedAt:    clock.Now(),
		Points:         []ThreatPoint{},
		LevelCounts:    map[ThreatLevel]int{},
		ProductSamples: samples,
	}

	primary := points[ProductHCHO]
	if len(primary) == 0 {
		a.InsufficientData = true
		a.Reason = "insufficient data: no valid hcho measurements after sampling"
		return a, nil
	}

	secondaries := map[Product][]RawSample{}
	for _, p := range []Product{ProductAerosol, ProductNO2} {
		if pts := points[p]; len(pts) > 0 {
			secondaries[p] = pts
		}
	}

	combined, stats := Combine(primary, secondaries, tolerance)
	a.MatchStats = stats
	logger.Debug("combined samples by location",
		"anchors", len(combined),
		"aerosol_matched", stats.Matched[ProductAerosol],
		"aerosol_defaulted", stats.Defaulted[ProductAerosol],
		"no2_matched", stats.Matched[ProductNO2],
		"no2_defaulted", stats.Defaulted[ProductNO2],
	)

	a.Points = make([]ThreatPoint, 0, len(combined))
	for _, cs := range combined {
		tp := scorePoint(cs)
		a.LevelCounts[tp.Level]++
		a.Points = append(a.Points, tp)
	}

	if len(a.Points) == 0 {
		a.InsufficientData = true
		a.Reason = "insufficient data: zero combined samples"
	}
	return a, nil
}

// sampleByProduct runs the grid sampler over every granule, merging samples
// per product. The primary product propagates errors; secondaries degrade.
func sampleByProduct(set GranuleSet, step int, logger *slog.Logger) (map[Product][]RawSample, map[Product]int, error) {
	points := map[Product][]RawSample{}
	hasPrimary := false
	for _, g := range set.Granules {
		samples, err := SampleGrid(g, step)
		if err != nil {
			if g.Product == ProductHCHO {
				return nil, nil, fmt.Errorf("sample primary product: %w", err)
			}
			logger.Warn("skipping malformed secondary granule",
				"product", g.Product, "error", err)
			continue
		}
		if g.Product == ProductHCHO {
			hasPrimary = true
		}
		points[g.Product] = append(points[g.Product], samples...)
	}
	if !hasPrimary {
		return nil, nil, fmt.Errorf("granule set %s: primary product hcho is missing", set.RequestID)
	}

	counts := make(map[Product]int, len(points))
	for p, pts := range points {
		counts[p] = len(pts)
	}
	return points, counts, nil
}

// scorePoint scores and classifies one combined sample.
func scorePoint(cs CombinedSample) ThreatPoint {
	score := CalculateWSTI(cs.HCHO, cs.Aerosol, cs.NO2)
	level := ClassifyScore(score)

	aerosol := aerosolUnavailableNorm
	if cs.Aerosol != nil {
		aerosol = *cs.Aerosol
	}
	no2 := 0.0
	if cs.NO2 != nil {
		no2 = *cs.NO2
	}

	return ThreatPoint{
		Latitude:    cs.Latitude,
		Longitude:   cs.Longitude,
		ThreatScore: round2(score),
		Level:       level,
		Color:       level.Color(),
		HCHO:        cs.HCHO,
		Aerosol:     aerosol,
		NO2:         no2,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
