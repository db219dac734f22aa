// Command obs-split breaks a combined observations JSON into two CSV
// halves so each part stays under hosting size limits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aviamap/flyway-tools/internal/catalog"
	"github.com/aviamap/flyway-tools/internal/obsdata"
)

func main() {
	var (
		input string
		part1 string
		part2 string
	)

	flag.StringVar(&input, "input", "", "combined observations JSON (required)")
	flag.StringVar(&part1, "part1", "", "first half CSV (default: <stem>_part1.csv)")
	flag.StringVar(&part2, "part2", "", "second half CSV (default: <stem>_part2.csv)")
	flag.Parse()

	if input == "" {
		flag.Usage()
		log.Fatal("missing required -input")
	}
	stem := strings.TrimSuffix(input, ".json")
	if part1 == "" {
		part1 = stem + "_part1.csv"
	}
	if part2 == "" {
		part2 = stem + "_part2.csv"
	}

	_ = godotenv.Load()

	obs, err := obsdata.ReadCombined(input)
	if err != nil {
		log.Fatalf("load observations: %v", err)
	}
	log.Printf("loaded %s: %d records", input, len(obs))

	start := time.Now()
	first, second := obsdata.SplitHalves(obs)
	if err := obsdata.WriteCSV(part1, first); err != nil {
		log.Fatalf("write part 1: %v", err)
	}
	if err := obsdata.WriteCSV(part2, second); err != nil {
		log.Fatalf("write part 2: %v", err)
	}

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "obs-split",
		Inputs:     []string{input},
		Output:     part1 + ", " + part2,
		RowsIn:     int64(len(obs)),
		RowsOut:    int64(len(obs)),
		DurationMs: time.Since(start).Milliseconds(),
	})

	fmt.Printf("wrote %s: %d records\n", part1, len(first))
	fmt.Printf("wrote %s: %d records\n", part2, len(second))
}
