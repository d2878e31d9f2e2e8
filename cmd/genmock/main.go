// Command genmock generates a synthetic TEMPO granule-set fixture plus the
// assessment the pipeline produces for it. It runs the actual domain code so
// the expected-output fixture always matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -granules-out data/mock/granule_set_260814.json \
//	  -assessment-out data/mock/assessment_260814.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/emberwatch/smoke-threat-etl/internal/domain"
)

const (
	gridRows = 40
	gridCols = 40

	// Synthetic swath over the Los Angeles basin.
	originLat = 33.6
	originLon = -118.8
	cellSize  = 0.02
)

// wireGranule mirrors the granule-set wire format consumed by the pipeline.
type wireGranule struct {
	Product   string      `json:"product"`
	FillValue float64     `json:"fill_value,omitempty"`
	Values    [][]float64 `json:"values"`
	Latitude  [][]float64 `json:"latitude"`
	Longitude [][]float64 `json:"longitude"`
}

type wireGranuleSet struct {
	RequestID  string        `json:"request_id"`
	ObservedAt string        `json:"observed_at"`
	SampleStep int           `json:"sample_step"`
	Tolerance  float64       `json:"tolerance,omitempty"`
	Granules   []wireGranule `json:"granules"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	granulesOut := flag.String("granules-out", "", "output path for the raw granule-set fixture")
	assessmentOut := flag.String("assessment-out", "", "output path for the expected assessment fixture")
	flag.Parse()

	if *granulesOut == "" || *assessmentOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -granules-out, -assessment-out")
	}

	// Set a fixed clock for a reproducible GeneratedAt timestamp.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.August, 14, 20, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	set := buildGranuleSet()

	payload, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal granule set: %w", err)
	}
	if err := writeFile(*granulesOut, payload); err != nil {
		return fmt.Errorf("writing granule fixture: %w", err)
	}
	log.Printf("wrote granule fixture: %s", *granulesOut)

	// Run the actual decode and assessment path on the fixture bytes.
	decoded, err := domain.DecodeGranuleSet(payload, slog.Default())
	if err != nil {
		return fmt.Errorf("decode generated fixture: %w", err)
	}
	assessment, err := domain.Assess(decoded, domain.AssessOptions{}, slog.Default())
	if err != nil {
		return fmt.Errorf("assess generated fixture: %w", err)
	}

	out, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}
	if err := writeFile(*assessmentOut, out); err != nil {
		return fmt.Errorf("writing assessment fixture: %w", err)
	}
	log.Printf("wrote assessment fixture: %s", *assessmentOut)

	printStats(assessment)
	return nil
}

// buildGranuleSet synthesizes a plume scenario: an HCHO hot spot in the grid
// center, a smoke layer drifting northeast of it, and an NO2 gradient rising
// toward the southeast corner. A band of fill values simulates a cloud mask.
func buildGranuleSet() wireGranuleSet {
	hcho := make([][]float64, gridRows)
	aerosol := make([][]float64, gridRows)
	no2 := make([][]float64, gridRows)
	lat := make([][]float64, gridRows)
	lon := make([][]float64, gridRows)

	for i := 0; i < gridRows; i++ {
		hcho[i] = make([]float64, gridCols)
		aerosol[i] = make([]float64, gridCols)
		no2[i] = make([]float64, gridCols)
		lat[i] = make([]float64, gridCols)
		lon[i] = make([]float64, gridCols)

		for j := 0; j < gridCols; j++ {
			lat[i][j] = originLat + float64(i)*cellSize
			lon[i][j] = originLon + float64(j)*cellSize

			// Gaussian HCHO plume centered mid-grid.
			di := float64(i-gridRows/2) / 8.0
			dj := float64(j-gridCols/2) / 8.0
			plume := math.Exp(-(di*di + dj*dj))
			hcho[i][j] = 5e15 + plume*3.5e16

			// Smoke layer offset to the northeast of the plume core.
			si := float64(i-gridRows/2-6) / 10.0
			sj := float64(j-gridCols/2-6) / 10.0
			aerosol[i][j] = -0.5 + math.Exp(-(si*si+sj*sj))*4.5

			// NO2 rises toward the southeast corner.
			no2[i][j] = 5e14 + float64(i+gridCols-j)/float64(gridRows+gridCols)*8e15

			// Cloud mask band across rows 10-12.
			if i >= 10 && i <= 12 {
				hcho[i][j] = domain.TempoFillValue
			}
		}
	}

	return wireGranuleSet{
		RequestID:  "mock-260814",
		ObservedAt: "2026-08-14T19:30:00Z",
		SampleStep: 2,
		Granules: []wireGranule{
			{Product: string(domain.ProductHCHO), Values: hcho, Latitude: lat, Longitude: lon},
			{Product: string(domain.ProductAerosol), Values: aerosol, Latitude: lat, Longitude: lon},
			{Product: string(domain.ProductNO2), Values: no2, Latitude: lat, Longitude: lon},
		},
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(a domain.Assessment) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Points: %d\n", len(a.Points))
	for _, level := range domain.ThreatLevels() {
		fmt.Printf("  %-14s %d\n", level, a.LevelCounts[level])
	}
	for _, product := range domain.Products() {
		fmt.Printf("Samples %-8s %d\n", product, a.ProductSamples[product])
	}

	if len(a.Points) == 0 {
		return
	}
	minScore, maxScore := a.Points[0].ThreatScore, a.Points[0].ThreatScore
	for _, pt := range a.Points[1:] {
		minScore = math.Min(minScore, pt.ThreatScore)
		maxScore = math.Max(maxScore, pt.ThreatScore)
	}
	fmt.Printf("Score range: %.2f to %.2f\n", minScore, maxScore)
}
