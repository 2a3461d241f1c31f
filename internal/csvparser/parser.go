// =============================================================================
// POS Report - CSV Record Parser
// =============================================================================
//
// This module reads a CSV export of one entity collection and turns each data
// row into a raw Record keyed by the header row.
//
// FORMAT:
//   - Row 1 holds the field names (product_id, product_quantity, ...)
//   - Every following non-empty row is one record
//   - All values are delivered as strings; the validation engine coerces
//     them to the declared field types
//   - List fields (product_details) hold the ids in one cell, joined with
//     the configured list separator
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/pos-report/internal/config"
	"github.com/ginjaninja78/pos-report/internal/types"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents the parsed CSV file.
type CSVData struct {
	// Headers contains the column headers from the CSV file.
	Headers []string

	// Records contains the data rows keyed by header.
	Records []types.Record

	// SourceFile is the path to the source CSV file.
	SourceFile string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := Decode(bufio.NewReader(file), settings)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	data.SourceFile = filePath
	return data, nil
}

// Decode reads CSV records from r.
func Decode(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers, err := cleanHeaders(allRows[0])
	if err != nil {
		return nil, err
	}

	return &CSVData{
		Headers: headers,
		Records: extractRecords(allRows[1:], headers),
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	// Handle special cases for common delimiters.
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		reader.Comma = ','
		if r, _ := utf8.DecodeRuneInString(settings.Delimiter); r != utf8.RuneError {
			reader.Comma = r
		}
	}

	// Short rows are padded in extractRecords rather than rejected here.
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims header values and strips a UTF-8 byte order mark.
//
// Empty headers become "Column_N"; the validation engine then reports them
// as unknown fields. A repeated header is an error because one of the two
// columns would be lost.
func cleanHeaders(headers []string) ([]string, error) {
	cleaned := make([]string, len(headers))
	seen := make(map[string]int, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		if first, dup := seen[header]; dup {
			return nil, fmt.Errorf("duplicate header %q in columns %d and %d", header, first+1, i+1)
		}
		seen[header] = i

		cleaned[i] = header
	}

	return cleaned, nil
}

// extractRecords converts data rows to records keyed by header.
// Missing trailing cells become empty strings.
func extractRecords(rows [][]string, headers []string) []types.Record {
	records := make([]types.Record, 0, len(rows))

	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		record := make(types.Record, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				record[header] = strings.TrimSpace(row[colIndex])
			} else {
				record[header] = ""
			}
		}

		records = append(records, record)
	}

	return records
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
