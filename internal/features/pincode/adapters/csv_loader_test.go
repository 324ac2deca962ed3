package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pincodes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadPincodeList verifies header matching is case-insensitive and that
// blanks and duplicates are dropped while order is preserved.
func TestLoadPincodeList(t *testing.T) {
	path := writeCSV(t, "State,pincode\nGujarat,396125\nGujarat,\nGujarat,382165\nGujarat,396125\n")

	pincodes, err := LoadPincodeList(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"396125", "382165"}, pincodes)
}

// TestLoadPincodeList_RaggedRows verifies short rows are tolerated.
func TestLoadPincodeList_RaggedRows(t *testing.T) {
	path := writeCSV(t, "PINCODE,State\n396125,Gujarat\n382165\n")

	pincodes, err := LoadPincodeList(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"396125", "382165"}, pincodes)
}

// TestLoadPincodeList_MissingColumn verifies a file without the pincode
// column is rejected.
func TestLoadPincodeList_MissingColumn(t *testing.T) {
	path := writeCSV(t, "State,City\nGujarat,Vapi\n")

	_, err := LoadPincodeList(path)

	assert.ErrorContains(t, err, "PINCODE column")
}

// TestLoadPincodeList_MissingFile verifies a nonexistent path errors.
func TestLoadPincodeList_MissingFile(t *testing.T) {
	_, err := LoadPincodeList(filepath.Join(t.TempDir(), "nope.csv"))

	assert.ErrorContains(t, err, "failed to open")
}
