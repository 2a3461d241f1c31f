// =============================================================================
// POS Report - JSON Record Parser
// =============================================================================
//
// Reads a JSON resource holding one array of objects, the canonical format of
// the point-of-sale exports. Numbers are kept as json.Number so that no
// precision is lost before the validation engine coerces them.
//
// =============================================================================

package jsonparser

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/pos-report/internal/types"
	"github.com/goccy/go-json"
)

// Parse reads a JSON file and returns its records in file order.
func Parse(filePath string) ([]types.Record, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	records, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return records, nil
}

// Decode reads one JSON array of objects from r.
func Decode(r io.Reader) ([]types.Record, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var rows []map[string]any
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode JSON array: %w", err)
	}

	// Only whitespace may follow the array.
	var trailing json.RawMessage
	if err := decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON array at offset %d", decoder.InputOffset())
	}

	records := make([]types.Record, 0, len(rows))
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("record %d is null", i)
		}
		records = append(records, types.Record(row))
	}

	return records, nil
}
