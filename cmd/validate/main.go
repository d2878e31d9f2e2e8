// Command validate runs the assessment path offline against a granule-set
// JSON fixture. It prints a summary of the resulting threat assessment and
// can optionally export the scored points as a Parquet file for analysis.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -granules data/mock/granule_set_260814.json \
//	  -parquet-out /tmp/threat_points.parquet
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/emberwatch/smoke-threat-etl/internal/domain"
)

// threatRow matches the Parquet export schema.
type threatRow struct {
	Latitude    float64 `parquet:"latitude"`
	Longitude   float64 `parquet:"longitude"`
	ThreatScore float64 `parquet:"threat_score"`
	Level       string  `parquet:"level"`
	HCHO        float64 `parquet:"hcho"`
	Aerosol     float64 `parquet:"aerosol"`
	NO2         float64 `parquet:"no2"`
}

func main() {
	granulesPath := flag.String("granules", "", "path to a granule-set JSON fixture")
	sampleStep := flag.Int("sample-step", 0, "sampling stride override (0 uses the fixture or default)")
	tolerance := flag.Float64("tolerance", 0, "matching tolerance override in degrees (0 uses the fixture or default)")
	parquetOut := flag.String("parquet-out", "", "optional path for a Parquet export of the scored points")
	flag.Parse()

	if *granulesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*granulesPath, *sampleStep, *tolerance, *parquetOut); code != 0 {
		os.Exit(code)
	}
}

func run(granulesPath string, sampleStep int, tolerance float64, parquetOut string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	data, err := os.ReadFile(granulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read granule fixture: %v\n", err)
		return 1
	}

	set, err := domain.DecodeGranuleSet(data, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: decode granule set: %v\n", err)
		return 1
	}

	assessment, err := domain.Assess(set, domain.AssessOptions{
		SampleStep: sampleStep,
		Tolerance:  tolerance,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: assess granule set: %v\n", err)
		return 1
	}

	printSummary(set, assessment)

	if parquetOut != "" {
		if err := exportParquet(parquetOut, assessment.Points); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: parquet export: %v\n", err)
			return 1
		}
		fmt.Printf("\nWrote %d points to %s\n", len(assessment.Points), parquetOut)
	}

	return 0
}

func printSummary(set domain.GranuleSet, a domain.Assessment) {
	fmt.Println("=== Smoke Threat Assessment ===")
	fmt.Printf("Request:     %s\n", a.RequestID)
	if !a.ObservedAt.IsZero() {
		fmt.Printf("Observed:    %s\n", a.ObservedAt.Format(time.RFC3339))
	}
	fmt.Printf("Generated:   %s\n", a.GeneratedAt.Format(time.RFC3339))
	fmt.Printf("Granules:    %d\n", len(set.Granules))

	if a.InsufficientData {
		fmt.Printf("\nInsufficient data: %s\n", a.Reason)
		return
	}

	fmt.Printf("Points:      %d\n", len(a.Points))
	for _, product := range domain.Products() {
		fmt.Printf("  samples %-8s %d\n", product, a.ProductSamples[product])
	}

	fmt.Println("\nThreat levels:")
	for _, level := range domain.ThreatLevels() {
		fmt.Printf("  %-15s %5d  %s\n", level, a.LevelCounts[level], level.Color())
	}

	if len(a.Points) == 0 {
		return
	}

	minScore, maxScore, sum := math.Inf(1), math.Inf(-1), 0.0
	worst := a.Points[0]
	for _, pt := range a.Points {
		minScore = math.Min(minScore, pt.ThreatScore)
		maxScore = math.Max(maxScore, pt.ThreatScore)
		sum += pt.ThreatScore
		if pt.ThreatScore > worst.ThreatScore {
			worst = pt
		}
	}
	fmt.Printf("\nScores: min=%.2f mean=%.2f max=%.2f\n", minScore, sum/float64(len(a.Points)), maxScore)
	fmt.Printf("Worst point: (%.4f, %.4f) score=%.2f level=%s\n",
		worst.Latitude, worst.Longitude, worst.ThreatScore, worst.Level)
}

func exportParquet(path string, points []domain.ThreatPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	rows := make([]threatRow, len(points))
	for i, pt := range points {
		rows[i] = threatRow{
			Latitude:    pt.Latitude,
			Longitude:   pt.Longitude,
			ThreatScore: pt.ThreatScore,
			Level:       string(pt.Level),
			HCHO:        pt.HCHO,
			Aerosol:     pt.Aerosol,
			NO2:         pt.NO2,
		}
	}

	w := parquet.NewGenericWriter[threatRow](f)
	if _, err := w.Write(rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close writer: %w", err)
	}
	return f.Close()
}
