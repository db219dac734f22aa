// Command build-heatmap bins species observations into weekly density
// frames and writes the heatmap JSON the front-end animates.
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
	"github.com/aviamap/flyway-tools/internal/heatmap"
	"github.com/aviamap/flyway-tools/internal/obsdata"
)

func main() {
	var (
		input       string
		output      string
		speciesCode string
		speciesName string
		countryCode string
		configPath  string
		maxWeeks    int
	)

	flag.StringVar(&input, "input", "", "combined observations JSON (required)")
	flag.StringVar(&output, "output", "", "output heatmap JSON (required)")
	flag.StringVar(&speciesCode, "species", "", "filter observations to this species code")
	flag.StringVar(&speciesName, "species-name", "", "species display name stored in the heatmap")
	flag.StringVar(&countryCode, "country", "", "filter observations to this country code")
	flag.StringVar(&configPath, "config", "", "pipeline config JSON")
	flag.IntVar(&maxWeeks, "max-weeks", 0, "cap the number of weekly frames (0 = no cap)")
	flag.Parse()

	if input == "" || output == "" {
		flag.Usage()
		log.Fatal("missing required -input or -output")
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

	obs, err := obsdata.ReadCombined(input)
	if err != nil {
		log.Fatalf("load observations: %v", err)
	}
	log.Printf("loaded %s: %d observations", input, len(obs))

	start := time.Now()
	frames, err := heatmap.BuildFrames(obs, heatmap.BuilderOptions{
		GridDegrees: cfg.GetGridDegrees(),
		RoundDigits: cfg.GetRoundDigits(),
		SpeciesCode: speciesCode,
		CountryCode: countryCode,
		MaxWeeks:    maxWeeks,
	})
	if err != nil {
		log.Fatalf("build frames: %v", err)
	}

	out := &heatmap.Document{
		ColorGradient: heatmap.ColorGradient{Min: heatmap.GradientMin, Max: heatmap.GradientMax},
		Frames:        frames,
		SpeciesName:   speciesName,
	}
	if err := out.Write(output); err != nil {
		log.Fatalf("write heatmap: %v", err)
	}

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "build-heatmap",
		Inputs:     []string{input},
		Output:     output,
		RowsIn:     int64(len(obs)),
		RowsOut:    int64(len(frames)),
		DurationMs: time.Since(start).Milliseconds(),
	})

	fmt.Printf("wrote %s: %d weekly frames\n", output, len(frames))
}
