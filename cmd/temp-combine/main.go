// Command temp-combine stacks yearly temperature CSV extracts into a
// single chronological file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/aviamap/flyway-tools/internal/catalog"
	"github.com/aviamap/flyway-tools/internal/tempgrid"
)

func main() {
	var output string
	flag.StringVar(&output, "output", "", "combined CSV path (required)")
	flag.Parse()

	inputs := flag.Args()
	if output == "" || len(inputs) < 2 {
		flag.Usage()
		log.Fatal("usage: temp-combine -output combined.csv input1.csv input2.csv [...]")
	}

	_ = godotenv.Load()

	start := time.Now()
	counts, err := tempgrid.Combine(inputs, output)
	if err != nil {
		log.Fatalf("combine: %v", err)
	}

	total := 0
	for i, n := range counts {
		fmt.Printf("  %s: %d rows\n", inputs[i], n)
		total += n
	}
	fmt.Printf("wrote %s: %d rows\n", output, total)

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "temp-combine",
		Inputs:     inputs,
		Output:     output,
		RowsIn:     int64(total),
		RowsOut:    int64(total),
		DurationMs: time.Since(start).Milliseconds(),
	})
}
