// =============================================================================
// Payment Advice Generator - Schema Validation
// =============================================================================
//
// This module checks that an uploaded table carries every column the
// documents need before any row is grouped or rendered. A missing column is
// fatal for the whole batch; there is no partial processing.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/payment-advice-generator/internal/types"
)

// =============================================================================
// COLUMN SETS
// =============================================================================

// RequiredColumns must all be present in the header row, in this order of
// reporting.
var RequiredColumns = []string{
	types.ColRecipient,
	types.ColSessionDate,
	types.ColAmount,
	types.ColName,
	types.ColEmail,
	types.ColAccountHolder,
	types.ColPAN,
	types.ColBank,
	types.ColAccountNumber,
	types.ColIFSC,
	types.ColBranch,
}

// OptionalColumns are recognized when present.
var OptionalColumns = []string{
	types.ColPhone,
	types.ColAddress,
	types.ColCategory,
	types.ColType,
}

// =============================================================================
// SCHEMA ERROR
// =============================================================================

// ErrSchema is matched by every *SchemaError through errors.Is.
var ErrSchema = errors.New("input schema is missing required columns")

// SchemaError reports the required columns absent from an input table.
type SchemaError struct {
	// Missing lists the absent required columns in RequiredColumns order.
	Missing []string

	// Present lists the columns the table actually has, in file order.
	Present []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s (available columns: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Present, ", "),
	)
}

// Is lets errors.Is(err, ErrSchema) match.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateSchema returns a *SchemaError when any required column is absent
// from headers.
func ValidateSchema(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return &SchemaError{
		Missing: missing,
		Present: append([]string(nil), headers...),
	}
}

// ValidateTable is ValidateSchema applied to a parsed table.
func ValidateTable(table *types.Table) error {
	if table == nil {
		return &SchemaError{Missing: append([]string(nil), RequiredColumns...)}
	}
	return ValidateSchema(table.Headers)
}
