// Package domain models TEMPO satellite atmospheric measurements and the
// Wildfire Smoke Threat Index (WSTI) computed from them.
//
// # Data Source
//
// Measurements originate from the NASA TEMPO (Tropospheric Emissions:
// Monitoring of Pollution) instrument, a geostationary spectrometer scanning
// North America hourly. The upstream collector service retrieves Level-2
// granules from the LARC_CLOUD provider, decodes the HDF5 payloads, and
// publishes each assessment window as a granule-set JSON message on the
// Kafka source topic. This service never touches granule files directly;
// it sees only decoded value and coordinate arrays.
//
// # Products
//
// Three products feed the index:
//
//	hcho     TEMPO_HCHO_L2    formaldehyde vertical column (molecules/cm²).
//	         Elevated HCHO indicates active biomass burning.
//	no2      TEMPO_NO2_L2     nitrogen-dioxide tropospheric column
//	         (molecules/cm²). Elevated NO2 indicates urban/industrial
//	         combustion and suppresses the wildfire interpretation.
//	aerosol  TEMPO_O3TOT_L2   UV aerosol index (dimensionless). Measures
//	         smoke and dust loading.
//
// # Array Conventions
//
// Value arrays are rank 1 (scan line), rank 2 (mirror_step × xtrack swath),
// or rank 3 (layer × mirror_step × xtrack). Coordinate arrays are rank 2
// grids matching the swath, or rank 1 per-axis vectors. The fill sentinel
// for TEMPO L2 data is -1e30; fill, NaN, and infinite values are invalid
// measurements and are never coerced to zero.
//
// # WSTI Model
//
// Each raw value is normalized to [0,1] against a fixed per-product
// calibration range, then combined:
//
//	activation  = ramp(hcho_norm, 0.2, 0.7)
//	suppression = 1 - 0.9*ramp(no2_norm, 0.4, 0.8)
//	score       = activation * suppression * aerosol_norm * 10
//
// An unavailable aerosol product contributes a moderate 0.5 rather than
// cancelling the score; an unavailable NO2 product contributes no
// suppression. These asymmetric defaults are deliberate business rules,
// not generic null handling.
//
// Scores map to five display bins: Safe (<2), Low (2-4), Medium (4-6),
// High (6-8), and Extreme (≥8) Threat, each with a fixed hex color.
package domain
