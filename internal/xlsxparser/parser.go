// =============================================================================
// Payment Advice Generator - XLSX Parser
// =============================================================================
//
// This module reads the session/payment table from an Excel workbook. The
// first row of the sheet is the header row; every following non-blank row is
// a record.
//
// Cells are read as formatted text, so numeric cells keep whatever the sheet
// shows (a phone number column formatted as "0.0" arrives as "9876543210.0"
// and is cleaned up later by the field normalizer).
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile opens an XLSX file and parses the named sheet.
// An empty sheet name selects the first sheet.
func ParseFile(filePath, sheet string) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	return Parse(file, filepath.Base(filePath), sheet)
}

// Parse reads a workbook from r and returns the table on the selected sheet.
//
// PARAMETERS:
//   - r: The workbook content.
//   - source: A name for the content, used in errors and logs.
//   - sheet: The worksheet to read; empty selects the first sheet.
//
// RETURNS:
//   - The parsed table.
//   - An error if the workbook cannot be opened or the sheet does not exist.
func Parse(r io.Reader, source, sheet string) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	headers := cleanHeaders(rows[0])

	table := &types.Table{
		Headers: headers,
		Records: make([]types.Record, 0, len(rows)-1),
		Source:  source,
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(row) {
				fields[header] = strings.TrimSpace(row[col])
			} else {
				fields[header] = ""
			}
		}

		table.Records = append(table.Records, types.Record{
			Fields:    fields,
			RowNumber: i + 1,
		})
	}

	return table, nil
}

// resolveSheet returns the sheet to read, defaulting to the first one.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		name := f.GetSheetName(0)
		if name == "" {
			return "", fmt.Errorf("workbook has no sheets")
		}
		return name, nil
	}

	for _, name := range f.GetSheetList() {
		if name == sheet {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found in workbook", sheet)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
