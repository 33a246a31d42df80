// Package data loads OHLCV candle windows from local files.
package data

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"crypto-trader/internal/errors"
	"crypto-trader/internal/models"
)

// candleRecord is the CSV row shape: timestamp,open,high,low,close,volume.
// The timestamp column accepts RFC3339 or unix seconds.
type candleRecord struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

// LoadCandlesCSV reads an OHLCV window from a CSV file.
func LoadCandlesCSV(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataError("csv", path, "opening candle file", err)
	}
	defer f.Close()

	var records []*candleRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, errors.NewDataError("csv", path, "parsing candle file", err)
	}

	candles := make([]models.Candle, 0, len(records))
	for i, rec := range records {
		ts, err := parseTimestamp(rec.Timestamp)
		if err != nil {
			return nil, errors.NewDataError("csv", path,
				fmt.Sprintf("row %d: bad timestamp %q", i+1, rec.Timestamp), err)
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      rec.Open,
			High:      rec.High,
			Low:       rec.Low,
			Close:     rec.Close,
			Volume:    rec.Volume,
		})
	}

	if len(candles) == 0 {
		return nil, errors.NewDataError("csv", path, "no candles in file", errors.ErrDataNotFound)
	}

	return candles, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format")
}
