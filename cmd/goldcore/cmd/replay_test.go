package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseBarRow(t *testing.T) {
	bar, err := parseBarRow([]string{"2024-01-01T00:00:00Z", "1900.0", "1901.5", "1899.2", "1900.8"})
	require.NoError(t, err)
	require.Equal(t, 1900.0, bar.Open)
	require.Equal(t, 1901.5, bar.High)
	require.Equal(t, 1899.2, bar.Low)
	require.Equal(t, 1900.8, bar.Close)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), bar.Time)
}

func TestParseBarRow_RejectsShortRow(t *testing.T) {
	_, err := parseBarRow([]string{"2024-01-01T00:00:00Z", "1900.0"})
	require.Error(t, err)
}

func TestLoadBarCSV_SkipsHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bars.csv")
	content := "time,open,high,low,close\n" +
		"2024-01-01T00:00:00Z,1900.0,1901.5,1899.2,1900.8\n" +
		"2024-01-01T01:00:00Z,1900.8,1902.0,1900.1,1901.3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	bars, err := loadBarCSV(path)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.True(t, bars[1].Time.After(bars[0].Time))
}

func TestLoadBarCSV_NoHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bars.csv")
	content := "2024-01-01T00:00:00Z,1900.0,1901.5,1899.2,1900.8\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	bars, err := loadBarCSV(path)
	require.NoError(t, err)
	require.Len(t, bars, 1)
}
