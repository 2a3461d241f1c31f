package jsonparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeepsOrderAndNumbers(t *testing.T) {
	input := `[
		{"product_id": "P1", "product_quantity": 3},
		{"product_id": "P2", "product_quantity": 9007199254740993}
	]`

	records, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "P1", records[0]["product_id"])
	assert.Equal(t, "P2", records[1]["product_id"])

	quantity, ok := records[1]["product_quantity"].(interface{ String() string })
	require.True(t, ok, "numbers should be decoded as json.Number")
	assert.Equal(t, "9007199254740993", quantity.String())
}

func TestDecodeRejectsNonArrays(t *testing.T) {
	tests := []string{
		`{"product_id": "P1"}`,
		`[1, 2]`,
		`[{"product_id": "P1"}, null]`,
		`[{"product_id": "P1"`,
	}

	for _, input := range tests {
		_, err := Decode(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	tests := []string{
		`[{"product_id": "P1"}] [{"product_id": "P2"}]`,
		`[{"product_id": "P1"}] [{"product_id"`,
		`[{"product_id": "P1"}]]`,
		`[{"product_id": "P1"}],`,
		`[{"product_id": "P1"}] trailing`,
	}

	for _, input := range tests {
		_, err := Decode(strings.NewReader(input))
		assert.ErrorContains(t, err, "unexpected data after JSON array", input)
	}

	records, err := Decode(strings.NewReader("[{\"product_id\": \"P1\"}]\n\n  \t\n"))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "branch.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"branch_id":"B1","branch_address":"X"}]`), 0o644))

	records, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "X", records[0]["branch_address"])

	_, err = Parse(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeEmptyArray(t *testing.T) {
	records, err := Decode(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, records)
}
