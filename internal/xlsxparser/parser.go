// =============================================================================
// POS Report - XLSX Record Parser
// =============================================================================
//
// This module reads entity collections from an XLSX workbook. A workbook may
// carry several collections, one per sheet:
//
//   | Sheet "products" |                  |
//   |------------------|------------------|
//   | product_id       | product_quantity |
//   | P1               | 3                |
//   | P2               | 740              |
//
// Row 1 of a sheet holds the field names; every following non-empty row is
// one record. Cell values are delivered as their formatted strings, so
// date-time columns should be stored as ISO-8601 text.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/pos-report/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// SHEET DATA STRUCTURE
// =============================================================================

// SheetData represents one parsed sheet.
type SheetData struct {
	// SourceFile is the path to the workbook.
	SourceFile string

	// SheetName is the sheet the records were read from.
	SheetName string

	// Headers contains the field names from row 1.
	Headers []string

	// Records contains the data rows keyed by header.
	Records []types.Record
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads one sheet of an XLSX workbook.
//
// PARAMETERS:
//   - workbookPath: The path to the XLSX file.
//   - sheetName: The sheet to read. If empty, the first sheet is used.
//
// RETURNS:
//   - A pointer to the SheetData struct.
//   - An error if the workbook or sheet cannot be read.
func Parse(workbookPath, sheetName string) (*SheetData, error) {
	f, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	} else if index, err := f.GetSheetIndex(sheetName); err != nil || index < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s (sheets: %s)",
			sheetName, workbookPath, strings.Join(f.GetSheetList(), ", "))
	}

	data, err := parseSheet(f, sheetName)
	if err != nil {
		return nil, fmt.Errorf("error parsing sheet '%s': %w", sheetName, err)
	}

	data.SourceFile = workbookPath
	return data, nil
}

// parseSheet parses a single sheet from an open XLSX file.
func parseSheet(f *excelize.File, sheetName string) (*SheetData, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("sheet has no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header := strings.TrimSpace(cell)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = header
	}

	data := &SheetData{
		SheetName: sheetName,
		Headers:   headers,
		Records:   make([]types.Record, 0, len(rows)-1),
	}

	for _, row := range rows[1:] {
		// Skip empty rows.
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}

		// GetRows trims trailing empty cells, so short rows are padded.
		record := make(types.Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = strings.TrimSpace(row[i])
			} else {
				record[header] = ""
			}
		}

		data.Records = append(data.Records, record)
	}

	return data, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
