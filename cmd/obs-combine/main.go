// Command obs-combine rebuilds a combined observations JSON from its
// CSV halves, regenerating the metadata block.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aviamap/flyway-tools/internal/catalog"
	"github.com/aviamap/flyway-tools/internal/obsdata"
)

func main() {
	var (
		output      string
		speciesCode string
		deleteParts bool
	)

	flag.StringVar(&output, "output", "", "combined observations JSON (required)")
	flag.StringVar(&speciesCode, "species", "", "species code for the metadata block (default: from records)")
	flag.BoolVar(&deleteParts, "delete-parts", false, "remove the CSV parts after a successful write")
	flag.Parse()

	parts := flag.Args()
	if output == "" || len(parts) == 0 {
		flag.Usage()
		log.Fatal("usage: obs-combine -output combined.json part1.csv [part2.csv ...]")
	}

	_ = godotenv.Load()

	var obs []obsdata.Observation
	for _, part := range parts {
		records, err := obsdata.ReadCSV(part)
		if err != nil {
			log.Fatalf("load %s: %v", part, err)
		}
		log.Printf("loaded %s: %d records", part, len(records))
		obs = append(obs, records...)
	}
	if speciesCode == "" && len(obs) > 0 {
		speciesCode = obs[0].SpeciesCode
	}

	start := time.Now()
	doc := &obsdata.Document{
		Metadata:     obsdata.BuildMetadata(speciesCode, obs, time.Now().UTC()),
		Observations: obs,
	}
	if err := obsdata.WriteCombined(output, doc); err != nil {
		log.Fatalf("write combined: %v", err)
	}

	if deleteParts {
		for _, part := range parts {
			if err := os.Remove(part); err != nil {
				log.Printf("remove %s: %v", part, err)
			}
		}
	}

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "obs-combine",
		Inputs:     parts,
		Output:     output,
		RowsIn:     int64(len(obs)),
		RowsOut:    int64(len(obs)),
		DurationMs: time.Since(start).Milliseconds(),
	})

	fmt.Printf("wrote %s: %d records\n", output, len(obs))
}
