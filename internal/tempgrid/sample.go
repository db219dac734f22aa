// Package tempgrid prepares the daily gridded sea-surface and land
// temperature datasets consumed by the visualization front-end:
// combining yearly extracts, thinning them with stratified sampling,
// splitting them into biweekly JSON chunks, and building matched
// historical subsets.
package tempgrid

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jszwec/csvutil"
)

// Sample is one gridded temperature reading.
type Sample struct {
	Date  string  `csv:"date" json:"date"`
	Lat   float64 `csv:"lat" json:"lat"`
	Lon   float64 `csv:"lon" json:"lon"`
	TempC float64 `csv:"temp_c" json:"temp_c"`
}

// ReadAll loads every sample from a temperature CSV file.
func ReadAll(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	var samples []Sample
	for {
		var s Sample
		if err := dec.Decode(&s); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decode row in %s: %w", path, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// WriteAtomic writes samples to path via a temp file in the same
// directory followed by a rename. A crash mid-write never leaves a
// truncated dataset at path.
func WriteAtomic(path string, samples []Sample) error {
	tmp := path + ".tmp"
	if err := writeSamples(tmp, samples); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func writeSamples(path string, samples []Sample) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	for i := range samples {
		if err := enc.Encode(samples[i]); err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// Combine concatenates the input CSV files into one output file,
// writing a single header and streaming rows in input order. It
// returns the number of data rows copied from each input.
func Combine(inputs []string, output string) ([]int, error) {
	out, err := os.Create(output)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", output, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"date", "lat", "lon", "temp_c"}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	counts := make([]int, len(inputs))
	for i, input := range inputs {
		n, err := copyRows(w, input)
		if err != nil {
			return nil, err
		}
		counts[i] = n
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush %s: %w", output, err)
	}
	return counts, out.Close()
}

// copyRows streams the data rows of one input, skipping its header.
// Rows are copied verbatim so combining never reformats values.
func copyRows(w *csv.Writer, input string) (int, error) {
	f, err := os.Open(input)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", input, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("read header of %s: %w", input, err)
	}

	n := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("read row in %s: %w", input, err)
		}
		if err := w.Write(row); err != nil {
			return n, fmt.Errorf("copy row from %s: %w", input, err)
		}
		n++
	}
	return n, nil
}
