// =============================================================================
// Payment Advice Generator - CSV Parser Module
// =============================================================================
//
// This module is responsible for parsing the uploaded session/payment CSV.
// It handles:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Legacy 8-bit encodings (ISO-8859-1, Windows-1252) decoded to UTF-8
//   - A leading UTF-8 byte order mark
//   - Ragged rows (missing trailing cells become empty values)
//   - Blank rows, which are skipped
//
// The parser does not decide which columns are required; that is the job of
// the validation package.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile opens filePath and parses it with Parse.
func ParseFile(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file, filepath.Base(filePath), settings)
}

// Parse reads a CSV stream and returns the parsed table.
//
// PARAMETERS:
//   - r: The CSV content.
//   - source: A name for the content, used in errors and logs.
//   - settings: Delimiter and encoding settings.
//
// RETURNS:
//   - The parsed table with trimmed headers and one record per non-blank row.
//   - An error if the content cannot be decoded or is not valid CSV.
//
// PARSING PROCESS:
//   1. Decode the stream to UTF-8 if a legacy encoding is configured
//   2. Drop a leading byte order mark
//   3. Read every row with the configured delimiter
//   4. Use the first row as headers and convert the rest to records
func Parse(r io.Reader, source string, settings config.CSVSettings) (*types.Table, error) {
	decoded, err := decodingReader(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := bufio.NewReader(decoded)
	if prefix, err := reader.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := reader.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to skip byte order mark: %w", err)
		}
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(allRows[0])

	return &types.Table{
		Headers: headers,
		Records: extractRecords(allRows[1:], headers),
		Source:  source,
	}, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Allow variable number of fields per row.
	reader.FieldsPerRecord = -1

	// Spreadsheet exports are not always strict about quoting.
	reader.LazyQuotes = true
}

// decodingReader wraps r so that it yields UTF-8.
func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "", "UTF-8", "UTF8":
		return r, nil
	case "ISO-8859-1", "LATIN1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// cleanHeaders trims header names and names empty headers by position.
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

// extractRecords converts data rows to records keyed by header.
// Row numbers count the header as row 1.
func extractRecords(rows [][]string, headers []string) []types.Record {
	records := make([]types.Record, 0, len(rows))

	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				fields[header] = strings.TrimSpace(row[colIndex])
			} else {
				fields[header] = ""
			}
		}

		records = append(records, types.Record{
			Fields:    fields,
			RowNumber: i + 2,
		})
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
