// Package fetcher opens and parses the static input files (CSV, XLSX,
// GeoJSON) the analytics core is built on. All access is local and
// read-only; errors are typed so callers can distinguish a missing file
// from a malformed one.
package fetcher

import (
	"os"

	"github.com/rotisserie/eris"
)

// Open opens a local data file for reading. A missing path yields
// *NotFoundError before any parsing is attempted.
func Open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, eris.Wrapf(err, "fetcher: stat %s", path)
	}
	if info.IsDir() {
		return nil, &NotFoundError{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	return f, nil
}

// Stat verifies a data file exists without keeping it open.
func Stat(path string) error {
	f, err := Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}
