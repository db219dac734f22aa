// Command temp-match builds a subset of one year's temperature data
// whose size and station footprint track a reference year.
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
	"github.com/aviamap/flyway-tools/internal/tempgrid"
)

func main() {
	var (
		reference  string
		pool       string
		output     string
		radius     float64
		seed       int64
		configPath string
	)

	flag.StringVar(&reference, "reference", "", "reference CSV whose footprint to match (required)")
	flag.StringVar(&pool, "pool", "", "CSV to draw matched rows from (required)")
	flag.StringVar(&output, "output", "", "matched output CSV (required)")
	flag.Float64Var(&radius, "radius", 0, "nearest-location radius in degrees (default from config)")
	flag.Int64Var(&seed, "seed", 0, "sampler seed (default from config)")
	flag.StringVar(&configPath, "config", "", "pipeline config JSON")
	flag.Parse()

	if reference == "" || pool == "" || output == "" {
		flag.Usage()
		log.Fatal("missing required -reference, -pool or -output")
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
	if radius == 0 {
		radius = cfg.GetMatchRadius()
	}
	if seed == 0 {
		seed = cfg.GetSampleSeed()
	}

	refSamples, err := tempgrid.ReadAll(reference)
	if err != nil {
		log.Fatalf("load reference: %v", err)
	}
	log.Printf("loaded %s: %d rows", reference, len(refSamples))

	poolSamples, err := tempgrid.ReadAll(pool)
	if err != nil {
		log.Fatalf("load pool: %v", err)
	}
	log.Printf("loaded %s: %d rows", pool, len(poolSamples))

	start := time.Now()
	res := tempgrid.Match(refSamples, poolSamples, tempgrid.MatchOptions{
		Radius: radius,
		Seed:   seed,
	})
	if err := tempgrid.WriteAtomic(output, res.Samples); err != nil {
		log.Fatalf("write output: %v", err)
	}

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "temp-match",
		Inputs:     []string{reference, pool},
		Output:     output,
		RowsIn:     int64(len(poolSamples)),
		RowsOut:    int64(len(res.Samples)),
		Seed:       seed,
		DurationMs: time.Since(start).Milliseconds(),
	})

	matchedPct := 0.0
	if res.TargetLocations > 0 {
		matchedPct = float64(res.MatchedLocations) / float64(res.TargetLocations) * 100
	}
	fmt.Printf("matched %d of %d locations (%.1f%%)\n", res.MatchedLocations, res.TargetLocations, matchedPct)
	if len(res.Samples) < res.TargetRows {
		log.Printf("warning: only %d rows available (target %d)", len(res.Samples), res.TargetRows)
	}
	fmt.Printf("wrote %s: %d rows\n", output, len(res.Samples))
}
