package average

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/jszwec/csvutil"
	"gonum.org/v1/gonum/stat"

	"github.com/aviamap/flyway-tools/internal/geo"
	"github.com/aviamap/flyway-tools/internal/tempgrid"
)

// DailyTemp is one day-of-year average across the whole grid.
type DailyTemp struct {
	Date  string  `csv:"date"`
	TempC float64 `csv:"temp_c"`
}

// Temperatures averages all grid readings by day-of-year, dating the
// result under the reference year. Temperatures are rounded to two
// decimals and the output is sorted by date.
func Temperatures(samples []tempgrid.Sample) []DailyTemp {
	byDay := make(map[string][]float64)
	for _, s := range samples {
		if len(s.Date) < 10 {
			continue
		}
		day := s.Date[5:10]
		byDay[day] = append(byDay[day], s.TempC)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DailyTemp, 0, len(days))
	for _, day := range days {
		out = append(out, DailyTemp{
			Date:  ReferenceYear + "-" + day,
			TempC: geo.RoundTo(stat.Mean(byDay[day], nil), 2),
		})
	}
	return out
}

// WriteDailyTemps stores the averaged series as CSV.
func WriteDailyTemps(path string, temps []DailyTemp) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	for i := range temps {
		if err := enc.Encode(temps[i]); err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
