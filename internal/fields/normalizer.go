// =============================================================================
// Payment Advice Generator - Field Normalizer
// =============================================================================
//
// This module turns raw cell text into the values the documents display.
//
// FIELD KINDS:
//   - Text        : missing -> "", present -> sanitized text
//   - Identifier  : phone / account numbers that spreadsheets export as
//                   decimals ("9876543210.0"); the fractional artifact is
//                   stripped, non-numeric text falls back to sanitized text
//   - Amount      : kept numeric for aggregation; a cell that does not parse
//                   is carried as raw text instead of failing the row
//
// =============================================================================

package fields

import (
	"strings"

	"github.com/ginjaninja78/payment-advice-generator/internal/sanitize"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/shopspring/decimal"
)

// Defaults for optional columns that are absent or empty.
const (
	DefaultCategory = "Alumni Connect"
	DefaultType     = "Enrolled Lead"
)

// =============================================================================
// TEXT FIELDS
// =============================================================================

// Text returns the sanitized value of column, or "" when the column is
// missing from the record.
func Text(rec types.Record, column string) string {
	raw, ok := rec.Get(column)
	if !ok {
		return ""
	}
	return sanitize.String(strings.TrimSpace(raw))
}

// TextOr is Text with a fallback used when the column is missing or blank.
func TextOr(rec types.Record, column, fallback string) string {
	if v := Text(rec, column); v != "" {
		return v
	}
	return sanitize.String(fallback)
}

// =============================================================================
// NUMERIC IDENTIFIERS
// =============================================================================

// Identifier returns the normalized numeric identifier stored in column.
func Identifier(rec types.Record, column string) string {
	raw, ok := rec.Get(column)
	if !ok {
		return ""
	}
	return NormalizeIdentifier(raw)
}

// NormalizeIdentifier strips the float artifact from an integer-valued
// identifier.
//
// EXAMPLES:
//   "9876543210.0" -> "9876543210"
//   "1.2345e9"     -> "1234500000"
//   "abc"          -> "abc"
//   "" / "nan"     -> ""
//
// The integer part is taken with exact decimal arithmetic, so long account
// numbers keep every digit.
func NormalizeIdentifier(raw string) string {
	value := strings.TrimSpace(raw)
	if isBlank(value) {
		return ""
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return sanitize.String(value)
	}
	return d.Truncate(0).String()
}

// =============================================================================
// AMOUNTS
// =============================================================================

// Amount is the outcome of parsing an amount cell: either a number or the
// raw text it came from.
type Amount struct {
	Value  decimal.Decimal
	Parsed bool

	// Raw is the sanitized, trimmed cell text.
	Raw string
}

// ParseAmount parses an amount cell. Failure is reported through Parsed,
// never as an error.
func ParseAmount(raw string) Amount {
	value := strings.TrimSpace(raw)
	amount := Amount{Raw: sanitize.String(value)}

	if value == "" {
		return amount
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return amount
	}

	amount.Value = d
	amount.Parsed = true
	return amount
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// isBlank reports whether a cell holds no value. "nan" is how numeric
// spreadsheet columns export their empty cells.
func isBlank(value string) bool {
	return value == "" || strings.EqualFold(value, "nan")
}

// IsDisplayable reports whether a detail value should be printed.
func IsDisplayable(value string) bool {
	return value != "" && value != "nan"
}
