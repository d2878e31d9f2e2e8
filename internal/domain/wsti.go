package domain

import "log/slog"

// Thresholds for the activation/suppression composition, in normalized
// [0,1] space.
const (
	hchoActivationLow  = 0.2
	hchoActivationHigh = 0.7
	no2SuppressionLow  = 0.4
	no2SuppressionHigh = 0.8

	// no2SuppressionStrength is how hard a fully urban NO2 signal pushes
	// the score down: suppression multiplier ranges [0.1, 1.0].
	no2SuppressionStrength = 0.9

	// aerosolUnavailableNorm is the normalized aerosol value assumed when
	// the aerosol product was not measured. A moderate default instead of
	// 0.0 keeps a missing secondary granule from cancelling the score.
	aerosolUnavailableNorm = 0.5
)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize maps a raw value onto [0,1] against a calibration range.
// Values outside the range clamp to the boundary. A degenerate range
// (Min == Max) normalizes to 0.0 instead of dividing by zero; see
// AuditCalibrations for how that misconfiguration surfaces.
func Normalize(v float64, c Calibration) float64 {
	span := c.Max - c.Min
	if span == 0 {
		return 0.0
	}
	return Clamp((v-c.Min)/span, 0, 1)
}

// ramp maps v linearly from 0 at lo to 1 at hi, clamped outside the band.
func ramp(v, lo, hi float64) float64 {
	return Clamp((v-lo)/(hi-lo), 0, 1)
}

// CalculateWSTI computes the Wildfire Smoke Threat Index for one location
// from the three raw product values. Nil aerosol or NO2 means the product
// was not measured: aerosol then defaults to a moderate normalized 0.5 and
// NO2 to a raw 0.0 (no suppression). Pure function: identical inputs
// always produce an identical score.
//
// The score is continuous on [0, 10]:
//
//	activation  rises 0→1 as normalized HCHO crosses 0.2→0.7
//	suppression falls 1→0.1 as normalized NO2 crosses 0.4→0.8
//	score = activation * suppression * normalized aerosol * 10
func CalculateWSTI(hchoRaw float64, aerosolRaw, no2Raw *float64) float64 {
	hchoNorm := Normalize(hchoRaw, calibrations[ProductHCHO])

	aerosolNorm := aerosolUnavailableNorm
	if aerosolRaw != nil {
		aerosolNorm = Normalize(*aerosolRaw, calibrations[ProductAerosol])
	}

	no2Norm := 0.0
	if no2Raw != nil {
		no2Norm = Normalize(*no2Raw, calibrations[ProductNO2])
	}

	activation := ramp(hchoNorm, hchoActivationLow, hchoActivationHigh)
	suppressionFactor := ramp(no2Norm, no2SuppressionLow, no2SuppressionHigh)
	no2Suppression := 1 - suppressionFactor*no2SuppressionStrength

	likelihood := activation * no2Suppression
	return likelihood * aerosolNorm * 10
}

// AuditCalibrations logs a configuration anomaly for any product whose
// calibration range is degenerate (Min == Max). Degenerate ranges are not
// fatal (Normalize falls back to 0.0) but they silently flatten the score
// for that product, so the condition is surfaced once at startup.
func AuditCalibrations(logger *slog.Logger) {
	for _, p := range Products() {
		c := calibrations[p]
		if c.Max-c.Min == 0 {
			logger.Warn("degenerate calibration range, product will normalize to zero",
				"product", p, "min", c.Min, "max", c.Max)
		}
	}
}
