// Package metrics aggregates the loaded dataset into region-year figures
// and reports join coverage against boundary collections.
package metrics

import (
	"sort"

	"github.com/civiclab/crimestat/internal/dataset"
)

// RegionYearMetric is the derived aggregate for one (region, year) pair.
type RegionYearMetric struct {
	Region     string  `json:"region"`
	RegionKey  string  `json:"region_key"`
	Year       int     `json:"year"`
	Count      float64 `json:"count"`
	Population float64 `json:"population"`

	// RatePerThousand is 1000 * Count / Population, nil when the summed
	// population is zero: undefined, not infinite.
	RatePerThousand *float64 `json:"rate_per_thousand"`

	// Variation is the first difference of the rate versus the region's
	// previous observed year. The first year of a region is 0, as is any
	// difference involving an undefined rate.
	Variation float64 `json:"variation"`
}

type groupKey struct {
	region string
	key    string
	year   int
}

// BuildRegionMetrics partitions the table by (region, join key, year), sums
// the two measures per group, and derives rate and year-over-year variation.
// Rows without a year are excluded from grouping. Output is sorted by
// region name then year.
//
// Fails with *MissingColumnError, listing every absent required column,
// before any aggregation.
func BuildRegionMetrics(tbl *dataset.Table) ([]RegionYearMetric, error) {
	if missing := tbl.MissingRequired(); len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	groups := make(map[groupKey]*RegionYearMetric)
	for _, rec := range tbl.Rows {
		if rec.Year == nil || rec.Count == nil || rec.Population == nil {
			continue
		}
		k := groupKey{region: rec.Region, key: rec.RegionKey, year: *rec.Year}
		g, ok := groups[k]
		if !ok {
			g = &RegionYearMetric{Region: rec.Region, RegionKey: rec.RegionKey, Year: k.year}
			groups[k] = g
		}
		g.Count += *rec.Count
		g.Population += *rec.Population
	}

	out := make([]RegionYearMetric, 0, len(groups))
	for _, g := range groups {
		if g.Population != 0 {
			rate := 1000 * g.Count / g.Population
			g.RatePerThousand = &rate
		}
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Year < out[j].Year
	})

	// Differencing runs across a region's year-sorted groups, never within
	// a group: same-year rows were already merged above.
	for i := range out {
		if i == 0 || out[i-1].Region != out[i].Region {
			continue
		}
		prev, cur := out[i-1].RatePerThousand, out[i].RatePerThousand
		if prev != nil && cur != nil {
			out[i].Variation = *cur - *prev
		}
	}

	return out, nil
}
