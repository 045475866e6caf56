package metrics

import (
	"sort"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/civiclab/crimestat/internal/geodata"
)

// Diagnostics reports how well the dataset's join keys cover an annotated
// boundary collection, and vice versa. Intended for diagnostic display only.
type Diagnostics struct {
	DataRegions int `json:"n_regions_data"`
	GeoRegions  int `json:"n_regions_geo"`

	// MissingInGeo are keys present in the data but absent from the
	// boundaries: these regions would render with no boundary.
	MissingInGeo []string `json:"missing_in_geo"`

	// MissingInData are keys present in the boundaries but absent from the
	// data: these regions would render unshaded.
	MissingInData []string `json:"missing_in_data"`
}

// MatchDiagnostics compares the normalized keys of a metrics table against
// an annotated feature collection. Empty keys are ignored on both sides.
// Pure and total: empty inputs yield empty (never nil) difference lists.
func MatchDiagnostics(rows []RegionYearMetric, fc *geojson.FeatureCollection) Diagnostics {
	geoKeys := make(map[string]bool)
	if fc != nil {
		for _, ft := range fc.Features {
			if k, ok := ft.Properties[geodata.NormKey].(string); ok && k != "" {
				geoKeys[k] = true
			}
		}
	}

	dataKeys := make(map[string]bool)
	for _, m := range rows {
		if m.RegionKey != "" {
			dataKeys[m.RegionKey] = true
		}
	}

	d := Diagnostics{
		DataRegions:   len(dataKeys),
		GeoRegions:    len(geoKeys),
		MissingInGeo:  make([]string, 0),
		MissingInData: make([]string, 0),
	}
	for k := range dataKeys {
		if !geoKeys[k] {
			d.MissingInGeo = append(d.MissingInGeo, k)
		}
	}
	for k := range geoKeys {
		if !dataKeys[k] {
			d.MissingInData = append(d.MissingInData, k)
		}
	}
	sort.Strings(d.MissingInGeo)
	sort.Strings(d.MissingInData)

	return d
}
