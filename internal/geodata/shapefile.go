package geodata

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/civiclab/crimestat/internal/fetcher"
)

// loadShapefile reads boundary polygons from a shapefile and presents them
// as a GeoJSON-shaped feature collection, with DBF attributes as
// properties, so downstream annotation and diagnostics are format-agnostic.
func loadShapefile(path string) (*geojson.FeatureCollection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, &fetcher.ParseError{Path: path, Err: err}
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}

	fc := &geojson.FeatureCollection{}
	for reader.Next() {
		_, shape := reader.Shape()

		props := make(map[string]any, len(names))
		for i, name := range names {
			props[name] = strings.TrimSpace(reader.Attribute(i))
		}

		g := shapeGeometry(shape)
		if g == nil {
			continue
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   g,
			Properties: props,
		})
	}

	return fc, nil
}

// shapeGeometry converts a shapefile shape to a go-geom geometry.
// Returns nil for unsupported or empty shapes.
func shapeGeometry(s shp.Shape) geom.T {
	switch shape := s.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{shape.X, shape.Y})
	case *shp.Polygon:
		return polygonToMultiPolygon(shape)
	default:
		return nil
	}
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon,
// one single-ring polygon per part.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end <= start {
			continue
		}

		ring := make([]geom.Coord, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, geom.Coord{p.Points[j].X, p.Points[j].Y})
		}

		poly := geom.NewPolygon(geom.XY)
		if _, err := poly.SetCoords([][]geom.Coord{ring}); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
