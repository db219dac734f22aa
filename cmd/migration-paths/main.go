// Command migration-paths extracts flyway migration paths from a
// weekly density heatmap and writes the path JSON consumed by the
// visualization front-end.
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
	"github.com/aviamap/flyway-tools/internal/flyway"
	"github.com/aviamap/flyway-tools/internal/heatmap"
)

func main() {
	var (
		input              string
		output             string
		speciesName        string
		configPath         string
		excludeNewZealand  bool
		americasOnly       bool
		europeOnly         bool
		africaOnlySouth    bool
		americasSouthLimit float64
	)

	flag.StringVar(&input, "input", "", "heatmap JSON file (required)")
	flag.StringVar(&output, "output", "", "output path JSON (default: derived from input)")
	flag.StringVar(&speciesName, "species-name", "", "species display name (default: from heatmap)")
	flag.StringVar(&configPath, "config", "", "pipeline config JSON")
	flag.BoolVar(&excludeNewZealand, "exclude-new-zealand", false, "drop cells in the New Zealand region before extraction")
	flag.BoolVar(&americasOnly, "americas-only", false, "extract the western flyway only")
	flag.BoolVar(&europeOnly, "europe-only", false, "restrict the eastern flyway to continental Europe")
	flag.BoolVar(&africaOnlySouth, "africa-only-south", false, "restrict the eastern flyway to Africa's longitude band")
	flag.Float64Var(&americasSouthLimit, "americas-south-limit", 0, "drop western cells south of this latitude")
	flag.Parse()

	if input == "" {
		flag.Usage()
		log.Fatal("missing required -input")
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

	if output == "" {
		output = flyway.DeriveOutputPath(input)
	}

	doc, err := heatmap.Load(input)
	if err != nil {
		log.Fatalf("load heatmap: %v", err)
	}
	log.Printf("loaded %s: %d frames", input, len(doc.Frames))

	opts := flyway.Options{
		SpeciesName:  speciesName,
		Waypoints:    cfg.GetWaypoints(),
		SmoothWindow: cfg.GetSmoothingWindow(),
		RoundDigits:  cfg.GetRoundDigits(),
		Cluster: flyway.ClusterOptions{
			Split:           cfg.GetLongitudeSplit(),
			AmericasOnly:    americasOnly,
			EuropeOnly:      europeOnly,
			AfricaOnlySouth: africaOnlySouth,
		},
	}
	if excludeNewZealand {
		opts.ExcludeRegions = append(opts.ExcludeRegions, flyway.NewZealandRegion)
	}
	if isFlagSet("americas-south-limit") {
		opts.Cluster.AmericasSouthLimit = &americasSouthLimit
	}

	start := time.Now()
	paths, err := flyway.BuildPaths(doc, opts)
	if err != nil {
		log.Fatalf("build paths: %v", err)
	}
	if err := paths.Write(output); err != nil {
		log.Fatalf("write output: %v", err)
	}

	recorder := catalog.NewRecorder(os.Getenv(catalog.EnvVar))
	defer recorder.Close()
	recorder.Record(catalog.Run{
		Tool:       "migration-paths",
		Inputs:     []string{input},
		Output:     output,
		RowsIn:     int64(countCells(doc)),
		RowsOut:    int64(len(paths.Paths)),
		DurationMs: time.Since(start).Milliseconds(),
	})

	for i, fp := range paths.Paths {
		fmt.Printf("flyway %d: %d waypoints, south (%.3f, %.3f) -> north (%.3f, %.3f)\n",
			i+1, len(fp.Path),
			fp.SouthPoint[0], fp.SouthPoint[1],
			fp.NorthPoint[0], fp.NorthPoint[1])
	}
	fmt.Printf("wrote %s\n", output)
}

func countCells(doc *heatmap.Document) int {
	n := 0
	for _, f := range doc.Frames {
		n += len(f.Cells)
	}
	return n
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
