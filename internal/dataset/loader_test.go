package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/civiclab/crimestat/internal/fetcher"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "communes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `CODGEO_2025,annee,nombre,insee_pop,nom_region,nom_departement,extra_col
29019,2020,10,1000,Bretagne,Finistère,x
29019,2021,20,1000,Bretagne,Finistère,y
75056,2020,,2000,Île-de-France,Paris,z
75056,2021,5,,Île-de-France,Paris,w
14118,2020,abc,500,Normandie,Calvados,v
14118,2021,3,500,Normandie,Calvados,u
`

func TestLoad_FiltersUnreleasedRows(t *testing.T) {
	tbl, err := Load(context.Background(), writeCSV(t, sampleCSV), DefaultColumns())
	require.NoError(t, err)

	// Rows with a null count or population are excluded, including the
	// non-numeric "abc" count.
	require.Len(t, tbl.Rows, 3)
	for _, rec := range tbl.Rows {
		assert.NotNil(t, rec.Count)
		assert.NotNil(t, rec.Population)
	}
}

func TestLoad_TypesAndJoinKey(t *testing.T) {
	tbl, err := Load(context.Background(), writeCSV(t, sampleCSV), DefaultColumns())
	require.NoError(t, err)

	rec := tbl.Rows[0]
	assert.Equal(t, "29019", rec.Code)
	require.NotNil(t, rec.Year)
	assert.Equal(t, 2020, *rec.Year)
	assert.Equal(t, 10.0, *rec.Count)
	assert.Equal(t, 1000.0, *rec.Population)
	assert.Equal(t, "Bretagne", rec.Region)
	assert.Equal(t, "bretagne", rec.RegionKey)
	assert.Equal(t, "Finistère", rec.Department)
}

func TestLoad_ExtraColumnsPassThrough(t *testing.T) {
	tbl, err := Load(context.Background(), writeCSV(t, sampleCSV), DefaultColumns())
	require.NoError(t, err)

	assert.Equal(t, "x", tbl.Rows[0].Extra["extra_col"])
}

func TestLoad_AccentedKey(t *testing.T) {
	csv := "annee,nombre,insee_pop,nom_region\n2020,1,100,Île-de-France\n"
	tbl, err := Load(context.Background(), writeCSV(t, csv), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "ile de france", tbl.Rows[0].RegionKey)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), DefaultColumns())
	require.Error(t, err)
	assert.True(t, fetcher.IsNotFound(err))
	assert.False(t, fetcher.IsParseError(err))
}

func TestLoad_ParseError(t *testing.T) {
	// An unterminated quote makes the file invalid tabular data.
	path := writeCSV(t, "a,b\n\"broken,1\n")
	_, err := Load(context.Background(), path, DefaultColumns())
	require.Error(t, err)
	assert.True(t, fetcher.IsParseError(err))
}

func TestLoad_MissingColumnsTracked(t *testing.T) {
	csv := "annee,nombre\n2020,5\n"
	tbl, err := Load(context.Background(), writeCSV(t, csv), DefaultColumns())
	require.NoError(t, err)

	assert.True(t, tbl.HasYear)
	assert.True(t, tbl.HasCount)
	assert.False(t, tbl.HasPopulation)
	assert.False(t, tbl.HasRegion)

	missing := tbl.MissingRequired()
	assert.Contains(t, missing, "insee_pop")
	assert.Contains(t, missing, "nom_region")
	assert.Contains(t, missing, "nom_region_norm")
	assert.NotContains(t, missing, "annee")
}

func TestLoad_NoMeasureFilteringWithoutBothColumns(t *testing.T) {
	// Only the count measure present: rows are retained even with nulls,
	// for structural inspection.
	csv := "annee,nombre,nom_region\n2020,,Bretagne\n2021,3,Bretagne\n"
	tbl, err := Load(context.Background(), writeCSV(t, csv), DefaultColumns())
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 2)
}

func TestLoad_FloatFormattedYear(t *testing.T) {
	csv := "annee,nombre,insee_pop,nom_region\n2019.0,1,100,Bretagne\n"
	tbl, err := Load(context.Background(), writeCSV(t, csv), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	require.NotNil(t, tbl.Rows[0].Year)
	assert.Equal(t, 2019, *tbl.Rows[0].Year)
}

func TestLoad_CategoryFallbackDetection(t *testing.T) {
	// No "indicateur" column; "type_infraction" is a known candidate and
	// takes its place.
	csv := "annee,nombre,insee_pop,nom_region,type_infraction\n2020,1,100,Bretagne,Cambriolages\n"
	tbl, err := Load(context.Background(), writeCSV(t, csv), DefaultColumns())
	require.NoError(t, err)

	assert.Equal(t, "type_infraction", tbl.Cols.Category)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Cambriolages", tbl.Rows[0].Category)
	assert.NotContains(t, tbl.Rows[0].Extra, "type_infraction")
}

func TestLoad_ConfiguredCategoryWinsOverCandidates(t *testing.T) {
	csv := "annee,nombre,insee_pop,nom_region,indicateur,type_infraction\n2020,1,100,Bretagne,Vols,Cambriolages\n"
	tbl, err := Load(context.Background(), writeCSV(t, csv), DefaultColumns())
	require.NoError(t, err)

	assert.Equal(t, "indicateur", tbl.Cols.Category)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Vols", tbl.Rows[0].Category)
	assert.Equal(t, "Cambriolages", tbl.Rows[0].Extra["type_infraction"])
}

func TestLoad_CommuneColumnDetection(t *testing.T) {
	csv := "annee,nombre,insee_pop,nom_region,nom_commune\n2020,1,100,Bretagne,Brest\n"
	tbl, err := Load(context.Background(), writeCSV(t, csv), DefaultColumns())
	require.NoError(t, err)

	assert.Equal(t, "nom_commune", tbl.CommuneColumn)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Brest", tbl.Rows[0].Extra["nom_commune"])

	plain, err := Load(context.Background(), writeCSV(t, sampleCSV), DefaultColumns())
	require.NoError(t, err)
	assert.Equal(t, "", plain.CommuneColumn)
}

func TestLoad_XLSX(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	for _, row := range [][]string{
		{"annee", "nombre", "insee_pop", "nom_region"},
		{"2020", "10", "1000", "Bretagne"},
		{"2020", "", "1000", "Bretagne"},
	} {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().Value = v
		}
	}

	path := filepath.Join(t.TempDir(), "communes.xlsx")
	require.NoError(t, f.Save(path))

	tbl, err := Load(context.Background(), path, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "bretagne", tbl.Rows[0].RegionKey)
	assert.Equal(t, 10.0, *tbl.Rows[0].Count)
}
