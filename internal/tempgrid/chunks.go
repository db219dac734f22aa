package tempgrid

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/aviamap/flyway-tools/internal/geo"
)

// ChunkSizeLimitMB is the chunk size the hosting setup can serve
// comfortably; larger chunks are written anyway but logged.
const ChunkSizeLimitMB = 25.0

// ChunkPoint is one reading inside a chunk day. The temperature field
// is shortened to keep the chunk files small.
type ChunkPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	T   float64 `json:"t"`
}

// ChunkDay groups a chunk's points by date.
type ChunkDay struct {
	Date   string       `json:"date"`
	Points []ChunkPoint `json:"points"`
}

// Chunk is one biweekly temperature file served to the front-end.
type Chunk struct {
	Period    string     `json:"period"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	Days      []ChunkDay `json:"days"`
}

// ManifestEntry describes one written chunk.
type ManifestEntry struct {
	Period    string  `json:"period"`
	File      string  `json:"file"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Days      int     `json:"days"`
	SizeMB    float64 `json:"sizeMB"`
}

// Manifest indexes all chunks for the front-end loader.
type Manifest struct {
	Chunks       []ManifestEntry `json:"chunks"`
	TotalPeriods int             `json:"totalPeriods"`
	DateRange    DateRange       `json:"dateRange"`
}

// DateRange bounds the manifest by period key.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PeriodFor maps an ISO date to its biweekly period key: YYYY-MM-A
// covers days 1 to 15, YYYY-MM-B the rest of the month.
func PeriodFor(date string) (string, error) {
	if len(date) < 10 {
		return "", fmt.Errorf("date %q is not in YYYY-MM-DD form", date)
	}
	day := (int(date[8]-'0') * 10) + int(date[9]-'0')
	if day < 1 || day > 31 {
		return "", fmt.Errorf("date %q has invalid day %d", date, day)
	}
	if day <= 15 {
		return date[:7] + "-A", nil
	}
	return date[:7] + "-B", nil
}

// WriteChunks splits samples into biweekly chunk files under outDir
// and returns the manifest describing them. Chunk files are compact
// JSON named temp_chunk_<period>.json; longitudes are normalized to
// the [-180, 180) range. Any existing chunk directory is replaced.
func WriteChunks(samples []Sample, outDir string) (*Manifest, error) {
	if err := os.RemoveAll(outDir); err != nil {
		return nil, fmt.Errorf("clear chunk directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create chunk directory: %w", err)
	}

	// period -> date -> points
	periods := make(map[string]map[string][]ChunkPoint)
	for _, s := range samples {
		period, err := PeriodFor(s.Date)
		if err != nil {
			return nil, err
		}
		days, ok := periods[period]
		if !ok {
			days = make(map[string][]ChunkPoint)
			periods[period] = days
		}
		days[s.Date] = append(days[s.Date], ChunkPoint{
			Lat: s.Lat,
			Lon: geo.NormalizeLon(s.Lon),
			T:   s.TempC,
		})
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("no samples to chunk")
	}

	periodKeys := make([]string, 0, len(periods))
	for period := range periods {
		periodKeys = append(periodKeys, period)
	}
	sort.Strings(periodKeys)

	manifest := &Manifest{
		TotalPeriods: len(periods),
		DateRange: DateRange{
			Start: periodKeys[0],
			End:   periodKeys[len(periodKeys)-1],
		},
	}

	for _, period := range periodKeys {
		days := periods[period]
		dates := make([]string, 0, len(days))
		for date := range days {
			dates = append(dates, date)
		}
		sort.Strings(dates)

		chunk := Chunk{
			Period:    period,
			StartDate: dates[0],
			EndDate:   dates[len(dates)-1],
		}
		for _, date := range dates {
			chunk.Days = append(chunk.Days, ChunkDay{Date: date, Points: days[date]})
		}

		name := fmt.Sprintf("temp_chunk_%s.json", period)
		path := filepath.Join(outDir, name)
		data, err := json.Marshal(&chunk)
		if err != nil {
			return nil, fmt.Errorf("encode chunk %s: %w", period, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}

		sizeMB := geo.RoundTo(float64(len(data))/(1024*1024), 2)
		if sizeMB > ChunkSizeLimitMB {
			log.Printf("warning: chunk %s is %.2f MB, over the %v MB limit", name, sizeMB, ChunkSizeLimitMB)
		}
		manifest.Chunks = append(manifest.Chunks, ManifestEntry{
			Period:    period,
			File:      filepath.Join(filepath.Base(outDir), name),
			StartDate: chunk.StartDate,
			EndDate:   chunk.EndDate,
			Days:      len(chunk.Days),
			SizeMB:    sizeMB,
		})
	}
	return manifest, nil
}

// WriteManifest stores the manifest pretty-printed next to the chunk
// directory.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
