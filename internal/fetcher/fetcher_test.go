package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestOpen_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	f, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestReadCSV_HeaderAndRows(t *testing.T) {
	in := "name,value\nBretagne,10\nNormandie,20\n"
	header, rows, err := ReadCSV(context.Background(), strings.NewReader(in), CSVOptions{Delimiter: ','})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "value"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Bretagne", "10"}, rows[0])
}

func TestReadCSV_Empty(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	assert.Error(t, err)
}

func TestReadCSV_RaggedRowsAllowed(t *testing.T) {
	in := "a,b,c\n1,2\n1,2,3,4\n"
	_, rows, err := ReadCSV(context.Background(), strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReadCSV_TrimSpace(t *testing.T) {
	in := "a,b\n x , y \n"
	_, rows, err := ReadCSV(context.Background(), strings.NewReader(in), CSVOptions{TrimSpace: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, rows[0])
}

func TestReadCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ReadCSV(ctx, strings.NewReader("a\n1\n"), CSVOptions{})
	assert.Error(t, err)
}

func TestDecodeJSONObject(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	obj, err := DecodeJSONObject[payload](strings.NewReader(`{"name":"Bretagne"}`))
	require.NoError(t, err)
	assert.Equal(t, "Bretagne", obj.Name)

	_, err = DecodeJSONObject[payload](strings.NewReader(`{not json`))
	assert.Error(t, err)
}
