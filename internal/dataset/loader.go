// Package dataset loads the commune-level crime table from CSV or XLSX
// into a typed, filtered, join-ready form.
package dataset

import (
	"context"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/civiclab/crimestat/internal/fetcher"
	"github.com/civiclab/crimestat/internal/normalize"
)

// Record is one usable row of the dataset. Count and Population are
// nullable before filtering; rows surviving Load always carry both when
// the table has both measure columns.
type Record struct {
	Code        string
	Year        *int
	Count       *float64
	Population  *float64
	Region      string
	RegionKey   string // normalized join key derived from Region
	Department  string
	SizeBracket string
	Category    string
	Extra       map[string]string // unrecognized columns, passed through untouched
}

// Table is the loaded dataset plus the column resolution that produced it.
// Cols reflects what was actually resolved: when the configured category
// column is absent from the header, a detected candidate takes its place.
type Table struct {
	Path   string
	Header []string
	Cols   Columns
	Rows   []Record

	// CommuneColumn is the detected commune-label column, "" when the
	// header has none. Its values pass through in Record.Extra.
	CommuneColumn string

	HasCode       bool
	HasYear       bool
	HasCount      bool
	HasPopulation bool
	HasRegion     bool
}

// MissingRequired lists the columns the metrics builder needs that this
// table does not have. The derived key column is reported alongside the
// region column it comes from.
func (t *Table) MissingRequired() []string {
	var missing []string
	if !t.HasRegion {
		missing = append(missing, t.Cols.Region, t.Cols.KeyColumn())
	}
	if !t.HasYear {
		missing = append(missing, t.Cols.Year)
	}
	if !t.HasCount {
		missing = append(missing, t.Cols.Count)
	}
	if !t.HasPopulation {
		missing = append(missing, t.Cols.Population)
	}
	return missing
}

// Load reads a delimited file (or an .xlsx export of the same table) into
// a Table. The identifying code stays text, the year is integer-like with
// nulls tolerated, and the two measures are coerced to numeric with
// unparseable values becoming null. When both measure columns are present,
// rows where either measure is null are excluded: they are "not released",
// not zero. When a region column is present every row gains a normalized
// join key. When the configured category column is absent, a common
// candidate spelling from the header is used in its place.
//
// Load fails with *fetcher.NotFoundError when the path does not exist and
// *fetcher.ParseError when the file is not valid tabular data. It is pure
// given the file contents, so results are safe to memoize by file identity.
func Load(ctx context.Context, path string, cols Columns) (*Table, error) {
	f, err := fetcher.Open(path)
	if err != nil {
		return nil, err
	}

	var header []string
	var raw [][]string

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		_ = f.Close()
		header, raw, err = fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	} else {
		header, raw, err = fetcher.ReadCSV(ctx, f, fetcher.CSVOptions{Delimiter: ','})
		_ = f.Close()
	}
	if err != nil {
		return nil, &fetcher.ParseError{Path: path, Err: err}
	}

	idx := resolveIndexes(header, cols)
	if idx.category < 0 {
		if det := DetectCategoryColumn(header); det != "" {
			cols.Category = det
			idx.category = indexOf(header, det)
		}
	}
	tbl := &Table{
		Path:          path,
		Header:        header,
		Cols:          cols,
		CommuneColumn: DetectCommuneColumn(header),
		HasCode:       idx.code >= 0,
		HasYear:       idx.year >= 0,
		HasCount:      idx.count >= 0,
		HasPopulation: idx.population >= 0,
		HasRegion:     idx.region >= 0,
	}

	filterMeasures := tbl.HasCount && tbl.HasPopulation

	dropped := 0
	for _, row := range raw {
		rec := buildRecord(header, row, idx)
		if filterMeasures && (rec.Count == nil || rec.Population == nil) {
			dropped++
			continue
		}
		if tbl.HasRegion {
			rec.RegionKey = normalize.Label(rec.Region)
		}
		tbl.Rows = append(tbl.Rows, rec)
	}

	zap.L().Debug("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", len(tbl.Rows)),
		zap.Int("dropped", dropped),
	)

	return tbl, nil
}

// colIndexes holds the header position of each well-known column, -1 when absent.
type colIndexes struct {
	code, year, count, population, region, department, sizeBracket, category int
}

func resolveIndexes(header []string, cols Columns) colIndexes {
	idx := colIndexes{
		code:        indexOf(header, cols.Code),
		year:        indexOf(header, cols.Year),
		count:       indexOf(header, cols.Count),
		population:  indexOf(header, cols.Population),
		region:      indexOf(header, cols.Region),
		department:  indexOf(header, cols.Department),
		sizeBracket: indexOf(header, cols.SizeBracket),
		category:    indexOf(header, cols.Category),
	}
	return idx
}

func indexOf(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

func buildRecord(header, row []string, idx colIndexes) Record {
	rec := Record{Extra: make(map[string]string)}
	for i, col := range header {
		if i >= len(row) {
			break
		}
		v := row[i]
		switch i {
		case idx.code:
			rec.Code = v
		case idx.year:
			rec.Year = parseYear(v)
		case idx.count:
			rec.Count = parseNumber(v)
		case idx.population:
			rec.Population = parseNumber(v)
		case idx.region:
			rec.Region = v
		case idx.department:
			rec.Department = v
		case idx.sizeBracket:
			rec.SizeBracket = v
		case idx.category:
			rec.Category = v
		default:
			rec.Extra[col] = v
		}
	}
	return rec
}

// parseNumber coerces a cell to numeric, returning nil for empty or
// unparseable values.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// parseYear coerces a cell to an integer year, tolerating float-formatted
// exports like "2019.0". Returns nil for empty or unparseable values.
func parseYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if y, err := strconv.Atoi(s); err == nil {
		return &y
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n != math.Trunc(n) {
		return nil
	}
	y := int(n)
	return &y
}
