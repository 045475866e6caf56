package metrics

import "sort"

// Years returns the distinct years present, ascending.
func Years(rows []RegionYearMetric) []int {
	seen := make(map[int]bool)
	for _, m := range rows {
		seen[m.Year] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Regions returns the distinct region names present, ascending.
func Regions(rows []RegionYearMetric) []string {
	seen := make(map[string]bool)
	for _, m := range rows {
		if m.Region != "" {
			seen[m.Region] = true
		}
	}
	regions := make([]string, 0, len(seen))
	for r := range seen {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// FilterYear keeps the rows for one year, preserving order.
func FilterYear(rows []RegionYearMetric, year int) []RegionYearMetric {
	out := make([]RegionYearMetric, 0)
	for _, m := range rows {
		if m.Year == year {
			out = append(out, m)
		}
	}
	return out
}

// FilterRegions keeps the rows for the named regions, preserving order.
func FilterRegions(rows []RegionYearMetric, regions []string) []RegionYearMetric {
	want := make(map[string]bool, len(regions))
	for _, r := range regions {
		want[r] = true
	}
	out := make([]RegionYearMetric, 0)
	for _, m := range rows {
		if want[m.Region] {
			out = append(out, m)
		}
	}
	return out
}

// TopByRate returns up to n rows for a year, highest rate first. Rows with
// an undefined rate rank last.
func TopByRate(rows []RegionYearMetric, year, n int) []RegionYearMetric {
	out := FilterYear(rows, year)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].RatePerThousand, out[j].RatePerThousand
		switch {
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri > *rj
		}
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Summary is the KPI block for one year.
type Summary struct {
	Year       int     `json:"year"`
	Regions    int     `json:"regions"`
	Incidents  float64 `json:"incidents"`
	Population float64 `json:"population"`

	// RatePerThousand is the population-weighted national rate, nil when
	// the summed population is zero.
	RatePerThousand *float64 `json:"rate_per_thousand"`
}

// Summarize aggregates one year's rows into national KPI figures.
func Summarize(rows []RegionYearMetric, year int) Summary {
	s := Summary{Year: year}
	for _, m := range FilterYear(rows, year) {
		s.Regions++
		s.Incidents += m.Count
		s.Population += m.Population
	}
	if s.Population != 0 {
		rate := 1000 * s.Incidents / s.Population
		s.RatePerThousand = &rate
	}
	return s
}
