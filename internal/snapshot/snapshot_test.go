package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiclab/crimestat/internal/dataset"
	"github.com/civiclab/crimestat/internal/fetcher"
)

const testCSV = `CODGEO_2025,annee,nombre,insee_pop,nom_region
29019,2020,10,1000,Bretagne
29019,2021,20,1000,Bretagne
14118,2020,5,500,Normandie
`

const testGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"NOM": "Bretagne"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    }
  ]
}`

func writeInputs(t *testing.T) (dataPath, geoPath string) {
	t.Helper()
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "communes.csv")
	geoPath = filepath.Join(dir, "regions.geojson")
	require.NoError(t, os.WriteFile(dataPath, []byte(testCSV), 0o644))
	require.NoError(t, os.WriteFile(geoPath, []byte(testGeoJSON), 0o644))
	return dataPath, geoPath
}

func newTestManager(t *testing.T, dataPath, geoPath string) *Manager {
	t.Helper()
	mgr, err := NewManager(dataPath, geoPath, dataset.DefaultColumns(), 2)
	require.NoError(t, err)
	return mgr
}

func TestCurrent_BuildsFullSnapshot(t *testing.T) {
	dataPath, geoPath := writeInputs(t)
	mgr := newTestManager(t, dataPath, geoPath)

	s, err := mgr.Current(context.Background())
	require.NoError(t, err)

	assert.Len(t, s.Table.Rows, 3)
	assert.Equal(t, "NOM", s.GeoNameKey)
	require.Len(t, s.Geo.Features, 1)
	assert.Equal(t, "bretagne", s.Geo.Features[0].Properties["region_norm"])
	assert.Len(t, s.Metrics, 3)
	assert.Equal(t, 2, s.Diagnostics.DataRegions)
	assert.Equal(t, []string{"normandie"}, s.Diagnostics.MissingInGeo)
	assert.NotEqual(t, "", s.ID.String())
}

func TestCurrent_MemoizesByFileIdentity(t *testing.T) {
	dataPath, geoPath := writeInputs(t)
	mgr := newTestManager(t, dataPath, geoPath)

	s1, err := mgr.Current(context.Background())
	require.NoError(t, err)
	s2, err := mgr.Current(context.Background())
	require.NoError(t, err)

	assert.Same(t, s1, s2, "unchanged inputs reuse the memoized snapshot")
}

func TestCurrent_RebuildsWhenInputChanges(t *testing.T) {
	dataPath, geoPath := writeInputs(t)
	mgr := newTestManager(t, dataPath, geoPath)

	s1, err := mgr.Current(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(dataPath, []byte(testCSV+"14118,2021,6,500,Normandie\n"), 0o644))
	require.NoError(t, os.Chtimes(dataPath, time.Now(), time.Now().Add(time.Second)))

	s2, err := mgr.Current(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, s1, s2)
	assert.NotEqual(t, s1.ID, s2.ID)
	assert.Len(t, s2.Table.Rows, 4)
}

func TestCurrent_MissingDataFile(t *testing.T) {
	_, geoPath := writeInputs(t)
	mgr := newTestManager(t, filepath.Join(t.TempDir(), "missing.csv"), geoPath)

	_, err := mgr.Current(context.Background())
	require.Error(t, err)
	assert.True(t, fetcher.IsNotFound(err))
}
