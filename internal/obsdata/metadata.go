package obsdata

import (
	"time"

	"github.com/aviamap/flyway-tools/internal/geo"
)

// FieldGap records how many records are missing a field, with the
// share as a percentage of all records.
type FieldGap struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Metadata summarises a combined observations document. The field
// names mirror the JSON files consumed by the visualization front-end.
type Metadata struct {
	SpeciesCode        string         `json:"speciesCode"`
	GeneratedAt        string         `json:"generatedAt"`
	Records            int            `json:"records"`
	MissingLat         FieldGap       `json:"missing_lat"`
	MissingLon         FieldGap       `json:"missing_lon"`
	MissingDate        FieldGap       `json:"missing_date"`
	MissingCount       FieldGap       `json:"missing_count"`
	MissingCountryCode FieldGap       `json:"missing_countryCode"`
	MissingStateCode   FieldGap       `json:"missing_stateCode"`
	MissingComName     FieldGap       `json:"missing_comName"`
	MissingSciName     FieldGap       `json:"missing_sciName"`
	DateMin            string         `json:"date_min"`
	DateMax            string         `json:"date_max"`
	LatMin             float64        `json:"lat_min"`
	LatMax             float64        `json:"lat_max"`
	LonMin             float64        `json:"lon_min"`
	LonMax             float64        `json:"lon_max"`
	MonthlyCounts      map[string]int `json:"monthly_counts"`
	UniqueCountryCode  int            `json:"unique_countryCode"`
	UniqueStateCode    int            `json:"unique_stateCode"`
}

// BuildMetadata computes the metadata block for a record set. A zero
// count is treated as a missing count, matching the upstream export
// convention; string fields are missing when empty.
func BuildMetadata(speciesCode string, obs []Observation, now time.Time) *Metadata {
	md := &Metadata{
		SpeciesCode:   speciesCode,
		GeneratedAt:   now.UTC().Format(time.RFC3339),
		Records:       len(obs),
		MonthlyCounts: make(map[string]int),
	}
	if len(obs) == 0 {
		return md
	}

	countries := make(map[string]struct{})
	states := make(map[string]struct{})

	md.DateMin = obs[0].Date
	md.DateMax = obs[0].Date
	md.LatMin, md.LatMax = obs[0].Lat, obs[0].Lat
	md.LonMin, md.LonMax = obs[0].Lon, obs[0].Lon

	for _, o := range obs {
		if o.Date == "" {
			md.MissingDate.Count++
		} else {
			if o.Date < md.DateMin {
				md.DateMin = o.Date
			}
			if o.Date > md.DateMax {
				md.DateMax = o.Date
			}
			if len(o.Date) >= 7 {
				md.MonthlyCounts[o.Date[:7]]++
			}
		}
		if o.Count == 0 {
			md.MissingCount.Count++
		}
		if o.CountryCode == "" {
			md.MissingCountryCode.Count++
		} else {
			countries[o.CountryCode] = struct{}{}
		}
		if o.StateCode == "" {
			md.MissingStateCode.Count++
		} else {
			states[o.StateCode] = struct{}{}
		}
		if o.CommonName == "" {
			md.MissingComName.Count++
		}
		if o.SciName == "" {
			md.MissingSciName.Count++
		}

		if o.Lat < md.LatMin {
			md.LatMin = o.Lat
		}
		if o.Lat > md.LatMax {
			md.LatMax = o.Lat
		}
		if o.Lon < md.LonMin {
			md.LonMin = o.Lon
		}
		if o.Lon > md.LonMax {
			md.LonMax = o.Lon
		}
	}

	md.UniqueCountryCode = len(countries)
	md.UniqueStateCode = len(states)

	total := len(obs)
	for _, gap := range []*FieldGap{
		&md.MissingLat, &md.MissingLon, &md.MissingDate, &md.MissingCount,
		&md.MissingCountryCode, &md.MissingStateCode,
		&md.MissingComName, &md.MissingSciName,
	} {
		gap.Percent = geo.RoundTo(float64(gap.Count)/float64(total)*100, 2)
	}
	return md
}
