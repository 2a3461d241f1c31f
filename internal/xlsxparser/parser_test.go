package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/pos-report/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook with one sheet per entry of sheets.
func writeWorkbook(t *testing.T, sheets map[string][][]any, order ...string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}

		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			values := row
			require.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	path := filepath.Join(t.TempDir(), "pos.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseNamedSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"products": {
			{"product_id", "product_quantity"},
			{"P1", 3},
			{},
			{"P2", 740},
		},
		"branches": {
			{"branch_id", "branch_address"},
			{"B1", "X"},
		},
	}, "products", "branches")

	data, err := Parse(path, "branches")
	require.NoError(t, err)
	assert.Equal(t, "branches", data.SheetName)
	assert.Equal(t, path, data.SourceFile)
	assert.Equal(t, []types.Record{{"branch_id": "B1", "branch_address": "X"}}, data.Records)

	data, err = Parse(path, "")
	require.NoError(t, err)
	assert.Equal(t, "products", data.SheetName)
	require.Len(t, data.Records, 2)
	assert.Equal(t, "3", data.Records[0]["product_quantity"])
	assert.Equal(t, "P2", data.Records[1]["product_id"])
}

func TestParsePadsShortRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"purchases": {
			{"purchase_id", "trans_details", "product_details"},
			{"PU1", "T1"},
		},
	}, "purchases")

	data, err := Parse(path, "purchases")
	require.NoError(t, err)
	require.Len(t, data.Records, 1)
	assert.Equal(t, "", data.Records[0]["product_details"])
}

func TestParseErrors(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"products": {{"product_id"}},
		"empty":    {},
	}, "products", "empty")

	_, err := Parse(path, "staff")
	assert.ErrorContains(t, err, "not found")

	_, err = Parse(path, "empty")
	assert.ErrorContains(t, err, "no header row")

	_, err = Parse(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}
