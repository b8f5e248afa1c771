// =============================================================================
// Payment Advice Generator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (Table, Record)
//   - aggregate              (Group, LineItem)
//   - render                 (Invoice)
//   - generator              (CoercionWarning)
//
// =============================================================================

package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COLUMN NAMES
// =============================================================================
// Column headers recognized in the uploaded table. Matching is exact after the
// header has been whitespace-trimmed.

const (
	ColRecipient     = "Mentor/Alumni"
	ColSessionDate   = "Session Date"
	ColAmount        = "Amount"
	ColName          = "Name"
	ColEmail         = "Email"
	ColPhone         = "Phone"
	ColAddress       = "Address"
	ColCategory      = "Category"
	ColType          = "Type"
	ColAccountHolder = "Account Holder"
	ColPAN           = "Pan Number"
	ColBank          = "Bank"
	ColAccountNumber = "Account Number"
	ColIFSC          = "IFSC Code"
	ColBranch        = "Branch"
)

// =============================================================================
// TABULAR INPUT
// =============================================================================

// Table is one parsed upload: the header row plus every non-empty data row.
type Table struct {
	// Headers are the trimmed column names in file order.
	Headers []string

	// Records are the data rows, in file order.
	Records []Record

	// Source names where the table came from (file name or upload name).
	Source string
}

// HasColumn reports whether the table's header row contains name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Record is one row of the uploaded table.
type Record struct {
	// Fields maps column header to the raw cell text.
	// A column absent from the table is absent from the map.
	Fields map[string]string

	// RowNumber is the 1-indexed row in the source file (header is row 1).
	RowNumber int
}

// Get returns the raw cell value for column and whether the column exists.
func (r Record) Get(column string) (string, bool) {
	v, ok := r.Fields[column]
	return v, ok
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Group is every record sharing one recipient identity.
// A Group always holds at least one record.
type Group struct {
	// Key is the raw recipient identity used for grouping.
	Key string

	// Records are the group's rows in input order.
	Records []Record

	// Recipient holds contact and banking details taken from the first record.
	Recipient Recipient

	// Lines are the itemized entries, one per record, in input order.
	Lines []LineItem

	// Subtotal is the sum of every line whose amount parsed.
	Subtotal decimal.Decimal

	// Warnings lists the non-fatal coercion failures seen in this group.
	Warnings []CoercionWarning
}

// Recipient is the sanitized identity, contact and banking block of a group.
type Recipient struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Banking Banking
}

// Banking is the payee's bank detail block.
type Banking struct {
	AccountHolder string
	PAN           string
	Bank          string
	AccountNumber string
	IFSC          string
	Branch        string
}

// LineItem is one row of a document's itemized table.
type LineItem struct {
	Description string
	Category    string
	Type        string

	// Amount is meaningful only when Parsed is true.
	Amount decimal.Decimal
	Parsed bool

	// RawAmount is the sanitized cell text, shown when the amount did not parse.
	RawAmount string

	RowNumber int
}

// CoercionWarning records a cell whose value could not be used: an amount
// that is not a number, or a blank recipient that drops its row. It never
// fails a run.
type CoercionWarning struct {
	RowNumber int
	Field     string
	Value     string
}

// Skipped reports whether the warning's row was left out of every group.
func (w CoercionWarning) Skipped() bool {
	return w.Field == ColRecipient
}

// Message describes the warning without its row number.
func (w CoercionWarning) Message() string {
	if w.Skipped() {
		return fmt.Sprintf("%s is blank, row skipped", w.Field)
	}
	return fmt.Sprintf("%s %q is not a number, excluded from total", w.Field, w.Value)
}

// =============================================================================
// DOCUMENT MODEL
// =============================================================================

// Invoice is the content of one rendered payment advice.
type Invoice struct {
	Number    int
	IssueDate time.Time
	Recipient Recipient
	Lines     []LineItem
	Total     decimal.Decimal

	CompanyName  string
	AddressLine1 string
	AddressLine2 string
}
