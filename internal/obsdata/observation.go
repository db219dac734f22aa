// Package obsdata reads and writes the bird-observation datasets the
// pipeline is built on: the combined per-species JSON documents and the
// CSV halves they are split into when a file would otherwise exceed
// hosting size limits.
package obsdata

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jszwec/csvutil"
)

// Observation is a single species observation record. The field tags
// match both the combined JSON documents and the CSV split files.
type Observation struct {
	Lat         float64 `json:"lat" csv:"lat"`
	Lon         float64 `json:"lon" csv:"lon"`
	Date        string  `json:"date" csv:"date"`
	Count       int     `json:"count" csv:"count"`
	CommonName  string  `json:"comName" csv:"comName"`
	SciName     string  `json:"sciName" csv:"sciName"`
	CountryCode string  `json:"countryCode" csv:"countryCode"`
	StateCode   string  `json:"stateCode" csv:"stateCode"`
	SpeciesCode string  `json:"speciesCode" csv:"speciesCode"`
}

// Document is a combined observations file: a metadata block plus the
// full record list.
type Document struct {
	Metadata     *Metadata     `json:"metadata,omitempty"`
	Observations []Observation `json:"observations"`
}

// ReadCombined loads observation records from a JSON file. Three shapes
// are accepted: a bare array of records, an object with an
// "observations" (or "records") array, and an object whose array values
// are flattened together. The last form covers ad-hoc exports where
// records are grouped under arbitrary keys.
func ReadCombined(path string) ([]Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	return decodeCombined(data)
}

func decodeCombined(data []byte) ([]Observation, error) {
	var asList []Observation
	if err := json.Unmarshal(data, &asList); err == nil {
		return asList, nil
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(data, &asObject); err != nil {
		return nil, fmt.Errorf("parse observations JSON: %w", err)
	}

	for _, key := range []string{"observations", "records"} {
		if raw, ok := asObject[key]; ok {
			var obs []Observation
			if err := json.Unmarshal(raw, &obs); err != nil {
				return nil, fmt.Errorf("parse %q array: %w", key, err)
			}
			return obs, nil
		}
	}

	// Fall back to flattening every array value in the object.
	var flattened []Observation
	for _, raw := range asObject {
		var obs []Observation
		if err := json.Unmarshal(raw, &obs); err == nil {
			flattened = append(flattened, obs...)
		}
	}
	if len(flattened) == 0 {
		return nil, fmt.Errorf("no observation records found in JSON document")
	}
	return flattened, nil
}

// WriteCombined writes a combined document as compact JSON.
func WriteCombined(path string, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode observations: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadCSV loads observation records from a CSV split file.
func ReadCSV(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("csv decoder for %s: %w", path, err)
	}

	var obs []Observation
	if err := dec.Decode(&obs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return obs, nil
}

// WriteCSV writes observation records as a CSV split file with a header
// row.
func WriteCSV(path string, obs []Observation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	for i := range obs {
		if err := enc.Encode(obs[i]); err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// SplitHalves divides records into two halves, the first holding
// floor(n/2) records. Used when a combined file must be stored as two
// CSV parts.
func SplitHalves(obs []Observation) (first, second []Observation) {
	mid := len(obs) / 2
	return obs[:mid], obs[mid:]
}
