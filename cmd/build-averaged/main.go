// Command build-averaged collapses multi-year species and temperature
// data into single reference-year files keyed by day or week of year.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aviamap/flyway-tools/internal/average"
	"github.com/aviamap/flyway-tools/internal/catalog"
	"github.com/aviamap/flyway-tools/internal/heatmap"
	"github.com/aviamap/flyway-tools/internal/obsdata"
	"github.com/aviamap/flyway-tools/internal/tempgrid"
)

func main() {
	var (
		obsInput     string
		heatmapInput string
		tempInput    string
		output       string
		speciesCode  string
		speciesName  string
	)

	flag.StringVar(&obsInput, "observations", "", "combined observations JSON to average")
	flag.StringVar(&heatmapInput, "heatmap", "", "heatmap JSON to average")
	flag.StringVar(&tempInput, "temperatures", "", "temperature CSV to average")
	flag.StringVar(&output, "output", "", "output file (required)")
	flag.StringVar(&speciesCode, "species", "", "species code for the averaged document")
	flag.StringVar(&speciesName, "species-name", "", "species display name")
	flag.Parse()

	if output == "" {
		flag.Usage()
		log.Fatal("missing required -output")
	}
	inputs := nonEmpty(obsInput, heatmapInput, tempInput)
	if len(inputs) != 1 {
		flag.Usage()
		log.Fatal("exactly one of -observations, -heatmap, -temperatures is required")
	}

	_ = godotenv.Load()

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()

	start := time.Now()
	var rowsIn, rowsOut int64

	switch {
	case obsInput != "":
		obs, err := obsdata.ReadCombined(obsInput)
		if err != nil {
			log.Fatalf("load observations: %v", err)
		}
		if speciesCode == "" && len(obs) > 0 {
			speciesCode = obs[0].SpeciesCode
		}
		averaged := average.Observations(speciesCode, speciesName, obs)
		if err := averaged.Write(output); err != nil {
			log.Fatalf("write averaged observations: %v", err)
		}
		rowsIn = int64(len(obs))
		rowsOut = int64(len(averaged.ByDayOfYear))
		fmt.Printf("wrote %s: %d daily averages\n", output, rowsOut)

	case heatmapInput != "":
		doc, err := heatmap.Load(heatmapInput)
		if err != nil {
			log.Fatalf("load heatmap: %v", err)
		}
		if speciesName != "" {
			doc.SpeciesName = speciesName
		}
		averaged := average.Heatmap(doc)
		if err := averaged.Write(output); err != nil {
			log.Fatalf("write averaged heatmap: %v", err)
		}
		rowsIn = int64(len(doc.Frames))
		rowsOut = int64(len(averaged.Frames))
		fmt.Printf("wrote %s: %d averaged frames\n", output, rowsOut)

	case tempInput != "":
		samples, err := tempgrid.ReadAll(tempInput)
		if err != nil {
			log.Fatalf("load temperatures: %v", err)
		}
		averaged := average.Temperatures(samples)
		if err := average.WriteDailyTemps(output, averaged); err != nil {
			log.Fatalf("write averaged temperatures: %v", err)
		}
		rowsIn = int64(len(samples))
		rowsOut = int64(len(averaged))
		fmt.Printf("wrote %s: %d daily averages\n", output, rowsOut)
	}

	recorder.Record(catalog.Run{
		Tool:       "build-averaged",
		Inputs:     inputs,
		Output:     output,
		RowsIn:     rowsIn,
		RowsOut:    rowsOut,
		DurationMs: time.Since(start).Milliseconds(),
	})
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
