package domain

import "fmt"

// UnsupportedProductError reports a product identifier outside the fixed
// hcho/no2/aerosol set.
type UnsupportedProductError struct {
	Product string
}

func (e *UnsupportedProductError) Error() string {
	return fmt.Sprintf("unsupported product %q (expected one of hcho, no2, aerosol)", e.Product)
}

// MalformedGridError reports incompatible value/coordinate array shapes for
// a granule. It names the offending product and shapes so operators can see
// exactly what the collector produced.
type MalformedGridError struct {
	Product    Product
	Reason     string
	ValueShape []int
	LatShape   []int
	LonShape   []int
}

func (e *MalformedGridError) Error() string {
	return fmt.Sprintf("malformed %s grid: %s (values %v, latitude %v, longitude %v)",
		e.Product, e.Reason, e.ValueShape, e.LatShape, e.LonShape)
}
