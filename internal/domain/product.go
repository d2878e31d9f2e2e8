package domain

// Product identifies one of the TEMPO data products feeding the threat index.
// The set is closed: adding a product means adding a constant here and a row
// to the calibration table, nothing else.
type Product string

const (
	// ProductHCHO is the formaldehyde vertical column (TEMPO_HCHO_L2).
	// It is the primary product: combined samples anchor on its coordinates.
	ProductHCHO Product = "hcho"
	// ProductNO2 is the nitrogen-dioxide tropospheric column (TEMPO_NO2_L2).
	ProductNO2 Product = "no2"
	// ProductAerosol is the UV aerosol index (TEMPO_O3TOT_L2).
	ProductAerosol Product = "aerosol"
)

// Products lists every supported product in a stable order.
func Products() []Product {
	return []Product{ProductHCHO, ProductNO2, ProductAerosol}
}

// ParseProduct validates a product identifier from an external payload.
// Unknown identifiers fail fast with UnsupportedProductError before any
// array processing happens.
func ParseProduct(s string) (Product, error) {
	switch Product(s) {
	case ProductHCHO, ProductNO2, ProductAerosol:
		return Product(s), nil
	default:
		return "", &UnsupportedProductError{Product: s}
	}
}

// Calibration is the fixed min-max range a product's raw values are
// normalized against. Values below Min normalize to 0, above Max to 1.
type Calibration struct {
	Min float64
	Max float64
}

// calibrations holds the normalization range per product, in native units.
var calibrations = map[Product]Calibration{
	ProductHCHO:    {Min: 5e15, Max: 4.0e16}, // molecules/cm²
	ProductAerosol: {Min: -1.0, Max: 5.0},    // dimensionless
	ProductNO2:     {Min: 5e14, Max: 1.5e16}, // molecules/cm²
}

// CalibrationFor returns the normalization range for a product.
func CalibrationFor(p Product) Calibration {
	return calibrations[p]
}
