package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/saltfish/pairscan/internal/config"
)

func writeCSV(t *testing.T, dir, symbol, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(content), 0o644))
}

func newTestLoader(t *testing.T, dir string, symbols []string) *Loader {
	t.Helper()
	cfg := &config.DataConfig{
		Dir:             dir,
		Symbols:         symbols,
		TimestampLayout: time.RFC3339,
	}
	return NewLoader(cfg, zaptest.NewLogger(t))
}

func TestLoader_LoadSeries(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "timestamp,close\n2024-01-01T00:00:00Z,100.5\n2024-01-01T01:00:00Z,101\n")
	writeCSV(t, dir, "BBB", "timestamp,close\n2024-01-01T00:00:00Z,50\n2024-01-01T01:00:00Z,51.25\n")

	loader := newTestLoader(t, dir, nil)
	series, err := loader.LoadSeries()
	require.NoError(t, err)
	require.Len(t, series, 2)

	aaa := series["AAA"]
	require.Equal(t, 2, aaa.Len())
	assert.Equal(t, 100.5, aaa.Values[0])
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), aaa.Times[0])
}

func TestLoader_ExtraColumnsAndUnixTimestamps(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "open,close,timestamp\n99,100,1704067200\n100,101,1704070800\n")
	writeCSV(t, dir, "BBB", "timestamp,close\n1704067200,50\n1704070800,51\n")

	loader := newTestLoader(t, dir, nil)
	series, err := loader.LoadSeries()
	require.NoError(t, err)

	aaa := series["AAA"]
	require.Equal(t, 2, aaa.Len())
	assert.Equal(t, 100.0, aaa.Values[0])
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), aaa.Times[0])
}

func TestLoader_SkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "timestamp,close\n2024-01-01T00:00:00Z,100\n")
	writeCSV(t, dir, "BBB", "timestamp,close\n2024-01-01T00:00:00Z,50\n")
	writeCSV(t, dir, "BAD", "timestamp,close\nnot-a-time,xyz\n")
	writeCSV(t, dir, "HEADERLESS", "2024-01-01T00:00:00Z,100\n2024-01-01T01:00:00Z,101\n")

	loader := newTestLoader(t, dir, nil)
	series, err := loader.LoadSeries()
	require.NoError(t, err)

	assert.Len(t, series, 2)
	assert.Contains(t, series, "AAA")
	assert.Contains(t, series, "BBB")
}

func TestLoader_FailsBelowTwoUsableSeries(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "timestamp,close\n2024-01-01T00:00:00Z,100\n")

	loader := newTestLoader(t, dir, nil)
	_, err := loader.LoadSeries()
	assert.Error(t, err)
}

func TestLoader_ConfiguredSymbolsLimitUniverse(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "timestamp,close\n2024-01-01T00:00:00Z,100\n")
	writeCSV(t, dir, "BBB", "timestamp,close\n2024-01-01T00:00:00Z,50\n")
	writeCSV(t, dir, "CCC", "timestamp,close\n2024-01-01T00:00:00Z,25\n")

	loader := newTestLoader(t, dir, []string{"AAA", "CCC"})
	series, err := loader.LoadSeries()
	require.NoError(t, err)

	assert.Len(t, series, 2)
	assert.NotContains(t, series, "BBB")
}

func TestBuildPairs(t *testing.T) {
	dir := t.TempDir()
	rows := "timestamp,close\n2024-01-01T00:00:00Z,1\n2024-01-01T01:00:00Z,2\n"
	writeCSV(t, dir, "CCC", rows)
	writeCSV(t, dir, "AAA", rows)
	writeCSV(t, dir, "BBB", rows)

	loader := newTestLoader(t, dir, nil)
	series, err := loader.LoadSeries()
	require.NoError(t, err)

	pairs := BuildPairs(series)
	require.Len(t, pairs, 3)

	// Deterministic lexicographic combination order.
	names := []string{pairs[0].Name, pairs[1].Name, pairs[2].Name}
	assert.Equal(t, []string{"AAA-BBB", "AAA-CCC", "BBB-CCC"}, names)
	assert.Equal(t, 2, pairs[0].Len())
}

func TestBuildPairs_InnerJoinsTimestamps(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAA", "timestamp,close\n2024-01-01T00:00:00Z,1\n2024-01-01T01:00:00Z,2\n2024-01-01T02:00:00Z,3\n")
	writeCSV(t, dir, "BBB", "timestamp,close\n2024-01-01T01:00:00Z,10\n2024-01-01T02:00:00Z,20\n2024-01-01T03:00:00Z,30\n")

	loader := newTestLoader(t, dir, nil)
	series, err := loader.LoadSeries()
	require.NoError(t, err)

	pairs := BuildPairs(series)
	require.Len(t, pairs, 1)
	assert.Equal(t, 2, pairs[0].Len())
	assert.Equal(t, []float64{2, 3}, pairs[0].Prices1)
	assert.Equal(t, []float64{10, 20}, pairs[0].Prices2)
}
