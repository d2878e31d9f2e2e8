package domain

// TempoFillValue is the documented fill sentinel for TEMPO L2 arrays.
// Granules may override it, but in practice every product uses -1e30.
const TempoFillValue = -1e30

// Array is a dense row-major numeric array of rank 1-3, the in-memory form
// of a decoded granule variable. Shape is the length along each axis, outer
// axis first; Data holds len(Shape[0])*...*len(Shape[n-1]) values.
type Array struct {
	Shape []int
	Data  []float64
}

// Rank returns the number of axes.
func (a Array) Rank() int { return len(a.Shape) }

// Len returns the length of the given axis.
func (a Array) Len(axis int) int { return a.Shape[axis] }

// At1 indexes a rank-1 array.
func (a Array) At1(i int) float64 { return a.Data[i] }

// At2 indexes a rank-2 array.
func (a Array) At2(i, j int) float64 {
	return a.Data[i*a.Shape[1]+j]
}

// At3 indexes a rank-3 array.
func (a Array) At3(k, i, j int) float64 {
	return a.Data[(k*a.Shape[1]+i)*a.Shape[2]+j]
}

// Granule holds one decoded satellite granule: a value array plus the
// latitude/longitude arrays locating each measurement.
type Granule struct {
	Product   Product
	Values    Array
	Latitude  Array
	Longitude Array
	// FillValue marks invalid measurements in Values. Zero means "use
	// TempoFillValue"; a granule whose real sentinel is 0 does not occur
	// in TEMPO data.
	FillValue float64
}

// fill returns the effective fill sentinel for the granule.
func (g Granule) fill() float64 {
	if g.FillValue == 0 {
		return TempoFillValue
	}
	return g.FillValue
}

// RawSample is one decimated observation from a single product.
type RawSample struct {
	Product   Product `json:"product"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Value     float64 `json:"value"`
}
