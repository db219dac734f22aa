// Command path-preview renders a migration-path file over its source
// heatmap as a PNG and an interactive HTML page for quick QA.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aviamap/flyway-tools/internal/catalog"
	"github.com/aviamap/flyway-tools/internal/flyway"
	"github.com/aviamap/flyway-tools/internal/heatmap"
	"github.com/aviamap/flyway-tools/internal/render"
)

func main() {
	var (
		heatmapPath string
		pathsPath   string
		pngOut      string
		htmlOut     string
	)

	flag.StringVar(&heatmapPath, "heatmap", "", "heatmap JSON (required)")
	flag.StringVar(&pathsPath, "paths", "", "migration path JSON (required)")
	flag.StringVar(&pngOut, "png", "", "PNG output (default: <paths stem>_preview.png)")
	flag.StringVar(&htmlOut, "html", "", "HTML output (default: <paths stem>_preview.html)")
	flag.Parse()

	if heatmapPath == "" || pathsPath == "" {
		flag.Usage()
		log.Fatal("missing required -heatmap or -paths")
	}
	stem := strings.TrimSuffix(pathsPath, filepath.Ext(pathsPath))
	if pngOut == "" {
		pngOut = stem + "_preview.png"
	}
	if htmlOut == "" {
		htmlOut = stem + "_preview.html"
	}

	_ = godotenv.Load()

	doc, err := heatmap.Load(heatmapPath)
	if err != nil {
		log.Fatalf("load heatmap: %v", err)
	}

	data, err := os.ReadFile(pathsPath)
	if err != nil {
		log.Fatalf("load paths: %v", err)
	}
	var paths flyway.PathDocument
	if err := json.Unmarshal(data, &paths); err != nil {
		log.Fatalf("parse paths: %v", err)
	}

	start := time.Now()
	if err := render.PathsPNG(doc, &paths, pngOut); err != nil {
		log.Fatalf("render PNG: %v", err)
	}
	if err := render.PathsHTML(doc, &paths, htmlOut); err != nil {
		log.Fatalf("render HTML: %v", err)
	}

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "path-preview",
		Inputs:     []string{heatmapPath, pathsPath},
		Output:     pngOut + ", " + htmlOut,
		RowsIn:     int64(len(doc.Frames)),
		RowsOut:    int64(len(paths.Paths)),
		DurationMs: time.Since(start).Milliseconds(),
	})

	fmt.Printf("wrote %s and %s\n", pngOut, htmlOut)
}
