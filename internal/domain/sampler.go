package domain

import (
	"fmt"
	"math"
)

// SampleGrid flattens a granule's value array into a decimated sequence of
// geo-located samples, discarding fill, NaN, and infinite values.
//
// Rank-1 arrays are walked at every index. Rank-2 arrays are walked at
// multiples of step along both axes; coordinates come from matching rank-2
// grids at (i, j), or from rank-1 axis vectors as latitude[i]/longitude[j].
// Rank-3 arrays treat the leading axis as a layer/time axis and sample only
// the most recent layer, then behave like the rank-2 case.
//
// TODO: the rank-3 last-layer rule mirrors the collector contract but has no
// latest-valid fallback; revisit if TEMPO L3 layered granules ever ship with
// an all-fill trailing layer.
//
// Output is row-major (outer axis, then inner axis) in ascending index
// order. A step that does not evenly divide an axis simply stops before the
// axis bound. Callers must not rely on point counts beyond what decimation
// implies.
func SampleGrid(g Granule, step int) ([]RawSample, error) {
	if step < 1 {
		return nil, fmt.Errorf("sample %s grid: step must be >= 1, got %d", g.Product, step)
	}
	if err := validateGrid(g); err != nil {
		return nil, err
	}

	switch g.Values.Rank() {
	case 1:
		return g.sampleRank1(), nil
	case 2:
		rows, cols := g.Values.Len(0), g.Values.Len(1)
		at := g.Values.At2
		return g.samplePlane(rows, cols, step, at), nil
	default: // rank 3, validated above
		layer := g.Values.Len(0) - 1
		rows, cols := g.Values.Len(1), g.Values.Len(2)
		at := func(i, j int) float64 { return g.Values.At3(layer, i, j) }
		return g.samplePlane(rows, cols, step, at), nil
	}
}

// sampleRank1 emits every valid index of a scan-line granule. Decimation is
// not applied: single scan lines are already small.
func (g Granule) sampleRank1() []RawSample {
	fill := g.fill()
	samples := make([]RawSample, 0, g.Values.Len(0))
	for i := 0; i < g.Values.Len(0); i++ {
		v := g.Values.At1(i)
		if !validValue(v, fill) {
			continue
		}
		samples = append(samples, RawSample{
			Product:   g.Product,
			Latitude:  g.Latitude.At1(i),
			Longitude: g.Longitude.At1(i),
			Value:     v,
		})
	}
	return samples
}

// samplePlane walks a rows×cols plane at multiples of step along both axes.
func (g Granule) samplePlane(rows, cols, step int, at func(i, j int) float64) []RawSample {
	fill := g.fill()
	gridded := g.Latitude.Rank() == 2

	var samples []RawSample
	for i := 0; i < rows; i += step {
		for j := 0; j < cols; j += step {
			v := at(i, j)
			if !validValue(v, fill) {
				continue
			}
			var lat, lon float64
			if gridded {
				lat, lon = g.Latitude.At2(i, j), g.Longitude.At2(i, j)
			} else {
				// Rank-1 coordinate vectors: row index selects latitude,
				// column index selects longitude.
				lat, lon = g.Latitude.At1(i), g.Longitude.At1(j)
			}
			samples = append(samples, RawSample{
				Product:   g.Product,
				Latitude:  lat,
				Longitude: lon,
				Value:     v,
			})
		}
	}
	return samples
}

// validValue reports whether v is a usable measurement. Fill, NaN, and
// infinite values are excluded, never coerced to zero.
func validValue(v, fill float64) bool {
	return v != fill && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validateGrid checks that the value and coordinate arrays have compatible
// ranks and shapes before any iteration happens.
func validateGrid(g Granule) error {
	if n := len(g.Values.Shape); n < 1 || n > 3 {
		return g.malformed(fmt.Sprintf("value array rank %d not in 1..3", n))
	}
	if want := shapeSize(g.Values.Shape); len(g.Values.Data) != want {
		return g.malformed(fmt.Sprintf("value data length %d does not match shape", len(g.Values.Data)))
	}
	if g.Latitude.Rank() != g.Longitude.Rank() {
		return g.malformed("latitude and longitude arrays have different ranks")
	}
	for _, c := range []Array{g.Latitude, g.Longitude} {
		if n := c.Rank(); n < 1 || n > 2 {
			return g.malformed(fmt.Sprintf("coordinate array rank %d not in 1..2", n))
		}
		if want := shapeSize(c.Shape); len(c.Data) != want {
			return g.malformed("coordinate data length does not match shape")
		}
	}

	switch g.Values.Rank() {
	case 1:
		if g.Latitude.Rank() != 1 {
			return g.malformed("rank-1 values require rank-1 coordinates")
		}
		if g.Latitude.Len(0) < g.Values.Len(0) || g.Longitude.Len(0) < g.Values.Len(0) {
			return g.malformed("coordinate arrays shorter than value array")
		}
	default:
		rows := g.Values.Len(g.Values.Rank() - 2)
		cols := g.Values.Len(g.Values.Rank() - 1)
		if g.Latitude.Rank() == 2 {
			if g.Latitude.Len(0) != rows || g.Latitude.Len(1) != cols ||
				g.Longitude.Len(0) != rows || g.Longitude.Len(1) != cols {
				return g.malformed("rank-2 coordinate grids do not match swath shape")
			}
		} else {
			if g.Latitude.Len(0) < rows || g.Longitude.Len(0) < cols {
				return g.malformed("rank-1 coordinate vectors shorter than swath axes")
			}
		}
	}
	return nil
}

func (g Granule) malformed(reason string) error {
	return &MalformedGridError{
		Product:    g.Product,
		Reason:     reason,
		ValueShape: g.Values.Shape,
		LatShape:   g.Latitude.Shape,
		LonShape:   g.Longitude.Shape,
	}
}

func shapeSize(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
