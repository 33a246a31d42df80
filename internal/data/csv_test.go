package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"crypto-trader/internal/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadCandlesCSV(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-06-01T12:00:00Z,100.5,101.2,99.8,100.9,1500
2024-06-01T12:01:00Z,100.9,101.5,100.4,101.1,1800
`)

	candles, err := LoadCandlesCSV(path)
	if err != nil {
		t.Fatalf("LoadCandlesCSV: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(candles))
	}

	first := candles[0]
	if first.Open != 100.5 || first.High != 101.2 || first.Low != 99.8 || first.Close != 100.9 || first.Volume != 1500 {
		t.Errorf("first candle = %+v", first)
	}
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, want)
	}
}

func TestLoadCandlesCSVUnixTimestamps(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
1717243200,100,101,99,100.5,1000
`)

	candles, err := LoadCandlesCSV(path)
	if err != nil {
		t.Fatalf("LoadCandlesCSV: %v", err)
	}
	want := time.Unix(1717243200, 0).UTC()
	if !candles[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", candles[0].Timestamp, want)
	}
}

func TestLoadCandlesCSVBadTimestamp(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
yesterday,100,101,99,100.5,1000
`)

	if _, err := LoadCandlesCSV(path); err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}

func TestLoadCandlesCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,close,volume\n")

	_, err := LoadCandlesCSV(path)
	if err == nil {
		t.Fatal("expected error for empty file")
	}
	if !errors.Is(err, errors.ErrDataNotFound) {
		t.Errorf("error = %v, want ErrDataNotFound in chain", err)
	}
}

func TestLoadCandlesCSVMissingFile(t *testing.T) {
	if _, err := LoadCandlesCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
