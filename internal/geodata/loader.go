// Package geodata loads regional boundary collections from GeoJSON or
// shapefile input and annotates every feature with a normalized join key.
package geodata

import (
	"path/filepath"
	"strings"

	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/civiclab/crimestat/internal/fetcher"
	"github.com/civiclab/crimestat/internal/normalize"
)

// Load reads a boundary feature collection. GeoJSON is the native format;
// a .shp path is read through the shapefile bridge instead. Geometry stays
// opaque to the analytics core.
//
// Fails with *fetcher.NotFoundError when the path is missing and
// *fetcher.ParseError when the content is malformed. An empty feature
// collection is valid.
func Load(path string) (*geojson.FeatureCollection, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		if err := fetcher.Stat(path); err != nil {
			return nil, err
		}
		return loadShapefile(path)
	}

	f, err := fetcher.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	fc, err := fetcher.DecodeJSONObject[geojson.FeatureCollection](f)
	if err != nil {
		return nil, &fetcher.ParseError{Path: path, Err: err}
	}

	zap.L().Debug("boundaries loaded",
		zap.String("path", path),
		zap.Int("features", len(fc.Features)),
	)
	return fc, nil
}

// Annotate returns a copy of the collection in which every feature carries
// properties[NormKey] = normalized value of the detected name field, plus
// the name of the field that was detected. The caller's collection is not
// mutated: features and property maps are copied (geometry is shared, it
// is read-only at this boundary).
//
// An empty collection yields an empty copy and the default key.
func Annotate(fc *geojson.FeatureCollection) (*geojson.FeatureCollection, string) {
	key := defaultNameKey
	if len(fc.Features) > 0 {
		key = DetectNameKey(fc.Features[0].Properties)
	}

	out := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(fc.Features)),
	}
	for _, ft := range fc.Features {
		props := make(map[string]any, len(ft.Properties)+1)
		for k, v := range ft.Properties {
			props[k] = v
		}
		name, _ := props[key].(string)
		props[NormKey] = normalize.Label(name)

		out.Features = append(out.Features, &geojson.Feature{
			ID:         ft.ID,
			Geometry:   ft.Geometry,
			Properties: props,
		})
	}

	return out, key
}
