package input

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var csvSettings = config.CSVSettings{Delimiter: ",", Encoding: "UTF-8"}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatXLSX, DetectFormat("Sessions.XLSX"))
	assert.Equal(t, FormatCSV, DetectFormat("sessions.csv"))
	assert.Equal(t, FormatCSV, DetectFormat("upload"))
}

func TestLoadCSV(t *testing.T) {
	table, err := Load(strings.NewReader("Mentor/Alumni,Amount\nAsha,10\n"), "s.csv", csvSettings)
	require.NoError(t, err)
	assert.Equal(t, "s.csv", table.Source)
	assert.Equal(t, "10", table.Records[0].Fields["Amount"])
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Mentor/Alumni", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Asha", "10"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Load(bytes.NewReader(buf.Bytes()), "s.xlsx", csvSettings)
	require.NoError(t, err)
	assert.Equal(t, "Asha", table.Records[0].Fields["Mentor/Alumni"])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.csv")
	require.NoError(t, os.WriteFile(path, []byte("Mentor/Alumni,Amount\nRavi,5\n"), 0o644))

	table, err := LoadFile(path, csvSettings)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", table.Records[0].Fields["Mentor/Alumni"])

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"), csvSettings)
	assert.Error(t, err)
}
