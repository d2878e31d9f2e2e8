package domain

// ThreatLevel is the discrete display category for a WSTI score.
type ThreatLevel string

const (
	LevelSafe    ThreatLevel = "Safe"
	LevelLow     ThreatLevel = "Low Threat"
	LevelMedium  ThreatLevel = "Medium Threat"
	LevelHigh    ThreatLevel = "High Threat"
	LevelExtreme ThreatLevel = "Extreme Threat"
)

// ThreatLevels lists every level from safest to most severe.
func ThreatLevels() []ThreatLevel {
	return []ThreatLevel{LevelSafe, LevelLow, LevelMedium, LevelHigh, LevelExtreme}
}

// Color returns the display hex code for the level.
func (l ThreatLevel) Color() string {
	switch l {
	case LevelExtreme:
		return "#800080"
	case LevelHigh:
		return "#FF0000"
	case LevelMedium:
		return "#FF8C00"
	case LevelLow:
		return "#FFD700"
	default:
		return "#32CD32"
	}
}

// ClassifyScore maps a WSTI score to its threat level. Bins are evaluated
// high-to-low with inclusive lower bounds at 8, 6, 4, and 2. The score is
// not clamped first; values outside [0,10] classify literally.
func ClassifyScore(score float64) ThreatLevel {
	switch {
	case score >= 8:
		return LevelExtreme
	case score >= 6:
		return LevelHigh
	case score >= 4:
		return LevelMedium
	case score >= 2:
		return LevelLow
	default:
		return LevelSafe
	}
}
