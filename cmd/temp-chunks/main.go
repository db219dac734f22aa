// Command temp-chunks splits a temperature CSV into biweekly JSON
// chunk files plus a manifest for the front-end loader.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/aviamap/flyway-tools/internal/catalog"
	"github.com/aviamap/flyway-tools/internal/tempgrid"
)

func main() {
	var (
		input    string
		outDir   string
		manifest string
	)

	flag.StringVar(&input, "input", "", "temperature CSV (required)")
	flag.StringVar(&outDir, "out-dir", "", "chunk output directory (default: $FLYWAY_DATA_DIR/temp_chunks)")
	flag.StringVar(&manifest, "manifest", "", "manifest output path (default: $FLYWAY_DATA_DIR/temp_chunks_manifest.json)")
	flag.Parse()

	if input == "" {
		flag.Usage()
		log.Fatal("missing required -input")
	}

	_ = godotenv.Load()

	dataDir := os.Getenv("FLYWAY_DATA_DIR")
	if outDir == "" {
		outDir = filepath.Join(dataDir, "temp_chunks")
	}
	if manifest == "" {
		manifest = filepath.Join(dataDir, "temp_chunks_manifest.json")
	}

	samples, err := tempgrid.ReadAll(input)
	if err != nil {
		log.Fatalf("load temperatures: %v", err)
	}
	log.Printf("loaded %s: %d rows", input, len(samples))

	start := time.Now()
	m, err := tempgrid.WriteChunks(samples, outDir)
	if err != nil {
		log.Fatalf("write chunks: %v", err)
	}
	if err := tempgrid.WriteManifest(manifest, m); err != nil {
		log.Fatalf("write manifest: %v", err)
	}

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "temp-chunks",
		Inputs:     []string{input},
		Output:     outDir,
		RowsIn:     int64(len(samples)),
		RowsOut:    int64(len(m.Chunks)),
		DurationMs: time.Since(start).Milliseconds(),
	})

	for _, c := range m.Chunks {
		fmt.Printf("  %s: %d days, %.2f MB\n", c.File, c.Days, c.SizeMB)
	}
	fmt.Printf("wrote %d chunks and %s\n", len(m.Chunks), manifest)
}
