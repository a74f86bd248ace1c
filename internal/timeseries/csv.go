// Package timeseries loads series data from CSV files for the CLI. The
// analytics engine itself never performs I/O; callers hand it the loaded
// TimeSeriesData.
package timeseries

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pulseforge/tsengine/pkg/errors"
	"github.com/pulseforge/tsengine/pkg/models"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn  string // column name for dates (default: first of ds/date/Date)
	ValueColumn string // column name for values (default: y/value)
	DateFormat  string // date format (default: "2006-01-02")
	HasHeader   bool   // whether the CSV has a header row
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateFormat: "2006-01-02",
		HasHeader:  true,
	}
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*models.TimeSeriesData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeInvalidInput, "failed to open CSV file")
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a time series from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*models.TimeSeriesData, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	valueIdx, dateIdx := 1, 0
	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeInvalidInput, "failed to read CSV header")
		}

		valueIdx, dateIdx = -1, -1
		for i, h := range header {
			h = strings.TrimSpace(h)
			switch {
			case h == opts.ValueColumn || (opts.ValueColumn == "" && (h == "y" || h == "value" || h == "Value")):
				valueIdx = i
			case h == opts.DateColumn || (opts.DateColumn == "" && (h == "ds" || h == "date" || h == "Date")):
				if dateIdx == -1 {
					dateIdx = i
				}
			}
		}
		if valueIdx == -1 {
			valueIdx = len(header) - 1
		}
	}

	var values []float64
	var timestamps []time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeValidation, errors.CodeInvalidInput, "failed to read CSV record")
		}
		if valueIdx >= len(record) {
			continue
		}

		valStr := strings.TrimSpace(record[valueIdx])
		if valStr == "" || valStr == "NA" || valStr == "NaN" {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			continue
		}

		ts := time.Time{}
		if dateIdx >= 0 && dateIdx < len(record) {
			dateStr := strings.TrimSpace(record[dateIdx])
			for _, format := range append([]string{opts.DateFormat}, dateFormats...) {
				if parsed, perr := time.Parse(format, dateStr); perr == nil {
					ts = parsed
					break
				}
			}
		}

		values = append(values, val)
		timestamps = append(timestamps, ts)
	}

	if len(values) == 0 {
		return nil, errors.NewInvalidInputError("no valid data found in CSV")
	}

	// Synthesize daily timestamps when the file carries none.
	if timestamps[0].IsZero() {
		start := time.Now().AddDate(0, 0, -len(values))
		for i := range timestamps {
			timestamps[i] = start.AddDate(0, 0, i)
		}
	}

	return models.NewTimeSeriesData(timestamps, values), nil
}
