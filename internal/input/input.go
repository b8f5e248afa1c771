// Package input picks the parser for an uploaded table by its file name.
package input

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/csvparser"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/ginjaninja78/payment-advice-generator/internal/xlsxparser"
)

// Format of an input table.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat returns the table format implied by name's extension.
// Anything that is not a workbook is read as delimited text.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// Load parses the table in r. name selects the parser and labels the table.
func Load(r io.Reader, name string, settings config.CSVSettings) (*types.Table, error) {
	switch DetectFormat(name) {
	case FormatXLSX:
		return xlsxparser.Parse(r, name, settings.Sheet)
	default:
		return csvparser.Parse(r, name, settings)
	}
}

// LoadFile parses the table stored at path.
func LoadFile(path string, settings config.CSVSettings) (*types.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input file not found: %w", err)
	}

	switch DetectFormat(path) {
	case FormatXLSX:
		return xlsxparser.ParseFile(path, settings.Sheet)
	default:
		return csvparser.ParseFile(path, settings)
	}
}
