package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic: one
// granule-set payload plus its Kafka position and commit callback.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// GranuleSet is one decoded assessment window: every granule the collector
// managed to retrieve for the three products, plus per-window overrides for
// the sampling stride and matching tolerance. Multiple granules may carry
// the same product; their sampled points are merged in message order.
type GranuleSet struct {
	RequestID  string
	ObservedAt time.Time
	SampleStep int     // 0 means "use the configured default"
	Tolerance  float64 // 0 means "use the configured default"
	Granules   []Granule
}

// ThreatPoint is one scored location in an assessment.
//
// ThreatScore is rounded to two decimals for display; classification
// happens on the unrounded value. When the aerosol product was unavailable
// the Aerosol field reports the assumed moderate default rather than zero,
// so consumers can tell "not measured" apart from "measured clean air".
type ThreatPoint struct {
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	ThreatScore float64     `json:"threat_score"`
	Level       ThreatLevel `json:"level"`
	Color       string      `json:"color"`
	HCHO        float64     `json:"hcho"`
	Aerosol     float64     `json:"aerosol"`
	NO2         float64     `json:"no2"`
}

// Assessment is the scored output for one granule set.
//
// InsufficientData distinguishes "no usable primary measurements" from a
// genuine zero-threat result: an empty Points slice with the flag unset
// would mean the swath really contained nothing threatening.
type Assessment struct {
	RequestID        string              `json:"request_id,omitempty"`
	ObservedAt       time.Time           `json:"observed_at,omitzero"`
	GeneratedAt      time.Time           `json:"generated_at"`
	Points           []ThreatPoint       `json:"points"`
	LevelCounts      map[ThreatLevel]int `json:"level_counts"`
	ProductSamples   map[Product]int     `json:"product_samples"`
	InsufficientData bool                `json:"insufficient_data,omitempty"`
	Reason           string              `json:"reason,omitempty"`

	// MatchStats is observability-only and stays off the wire.
	MatchStats MatchStats `json:"-"`
}
