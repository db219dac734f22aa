// Command temp-reduce thins a temperature CSV with stratified
// sampling, optionally only inside a bounding region, and replaces
// the file atomically.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aviamap/flyway-tools/internal/catalog"
	"github.com/aviamap/flyway-tools/internal/config"
	"github.com/aviamap/flyway-tools/internal/geo"
	"github.com/aviamap/flyway-tools/internal/tempgrid"
)

func main() {
	var (
		input      string
		output     string
		fraction   float64
		seed       int64
		configPath string
		region     string
	)

	flag.StringVar(&input, "input", "", "temperature CSV (required)")
	flag.StringVar(&output, "output", "", "output CSV (default: replace input in place)")
	flag.Float64Var(&fraction, "fraction", 0, "fraction of each stratum to keep (default from config)")
	flag.Int64Var(&seed, "seed", 0, "sampler seed (default from config)")
	flag.StringVar(&configPath, "config", "", "pipeline config JSON")
	flag.StringVar(&region, "region", "", "restrict reduction to minLon,maxLon,minLat,maxLat")
	flag.Parse()

	if input == "" {
		flag.Usage()
		log.Fatal("missing required -input")
	}
	if output == "" {
		output = input
	}

	_ = godotenv.Load()

	cfg := config.EmptyPipelineConfig()
	if configPath != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if fraction == 0 {
		fraction = cfg.GetSampleFraction()
	}
	if seed == 0 {
		seed = cfg.GetSampleSeed()
	}

	opts := tempgrid.ReduceOptions{Fraction: fraction, Seed: seed}
	if region != "" {
		rect, err := parseRegion(region)
		if err != nil {
			log.Fatalf("parse region: %v", err)
		}
		opts.Region = &rect
		// Finer strata inside a small region.
		opts.BinDigits = 1
	}

	samples, err := tempgrid.ReadAll(input)
	if err != nil {
		log.Fatalf("load temperatures: %v", err)
	}
	log.Printf("loaded %s: %d rows", input, len(samples))

	start := time.Now()
	reduced := tempgrid.Reduce(samples, opts)
	if err := tempgrid.WriteAtomic(output, reduced); err != nil {
		log.Fatalf("write output: %v", err)
	}

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "temp-reduce",
		Inputs:     []string{input},
		Output:     output,
		RowsIn:     int64(len(samples)),
		RowsOut:    int64(len(reduced)),
		Seed:       seed,
		DurationMs: time.Since(start).Milliseconds(),
	})

	pct := 0.0
	if len(samples) > 0 {
		pct = (1 - float64(len(reduced))/float64(len(samples))) * 100
	}
	fmt.Printf("wrote %s: %d rows (%.1f%% reduction)\n", output, len(reduced), pct)
}

func parseRegion(s string) (geo.Rect, error) {
	var minLon, maxLon, minLat, maxLat float64
	if _, err := fmt.Sscanf(s, "%f,%f,%f,%f", &minLon, &maxLon, &minLat, &maxLat); err != nil {
		return geo.Rect{}, fmt.Errorf("want minLon,maxLon,minLat,maxLat: %w", err)
	}
	return geo.NewRect(minLon, maxLon, minLat, maxLat), nil
}
