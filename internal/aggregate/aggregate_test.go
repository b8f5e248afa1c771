package aggregate

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/ginjaninja78/payment-advice-generator/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var headers = append(append([]string{}, validation.RequiredColumns...), validation.OptionalColumns...)

func row(n int, recipient, amount string, extra map[string]string) types.Record {
	fields := map[string]string{}
	for _, h := range headers {
		fields[h] = ""
	}
	fields[types.ColRecipient] = recipient
	fields[types.ColAmount] = amount
	fields[types.ColSessionDate] = "2025-01-10"
	fields[types.ColName] = recipient + " session"
	fields[types.ColEmail] = "mentor@example.com"
	for k, v := range extra {
		fields[k] = v
	}
	return types.Record{Fields: fields, RowNumber: n}
}

func table(records ...types.Record) *types.Table {
	return &types.Table{Headers: headers, Records: records, Source: "test"}
}

func TestGroupSubtotalsAndCount(t *testing.T) {
	groups, _, err := Group(table(
		row(2, "A", "100.50", nil),
		row(3, "B", "50", nil),
		row(4, "A", "200.25", nil),
	), config.OrderFirstSeen)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Key)
	assert.Equal(t, "B", groups[1].Key)
	assert.True(t, decimal.RequireFromString("300.75").Equal(groups[0].Subtotal))
	assert.True(t, decimal.RequireFromString("50").Equal(groups[1].Subtotal))

	require.Len(t, groups[0].Lines, 2)
	assert.Equal(t, 2, groups[0].Lines[0].RowNumber)
	assert.Equal(t, 4, groups[0].Lines[1].RowNumber)
}

func TestGroupSkipsUnparseableAmounts(t *testing.T) {
	groups, _, err := Group(table(
		row(2, "A", "60", nil),
		row(3, "A", "N/A", nil),
		row(4, "A", "40", nil),
	), config.OrderFirstSeen)
	require.NoError(t, err)

	g := groups[0]
	assert.Equal(t, "100.00", g.Subtotal.StringFixed(2))
	require.Len(t, g.Lines, 3)
	assert.False(t, g.Lines[1].Parsed)
	assert.Equal(t, "N/A", g.Lines[1].RawAmount)

	require.Len(t, g.Warnings, 1)
	assert.Equal(t, types.CoercionWarning{RowNumber: 3, Field: types.ColAmount, Value: "N/A"}, g.Warnings[0])
}

func TestGroupFirstRowWins(t *testing.T) {
	groups, _, err := Group(table(
		row(2, "A", "1", map[string]string{
			types.ColBank:          "HDFC",
			types.ColAccountNumber: "123456789.0",
			types.ColPhone:         "9876543210.0",
			types.ColAddress:       "Pune",
		}),
		row(3, "A", "1", map[string]string{
			types.ColBank:          "SBI",
			types.ColAccountNumber: "999",
		}),
	), config.OrderFirstSeen)
	require.NoError(t, err)

	r := groups[0].Recipient
	assert.Equal(t, "A", r.Name)
	assert.Equal(t, "HDFC", r.Banking.Bank)
	assert.Equal(t, "123456789", r.Banking.AccountNumber)
	assert.Equal(t, "9876543210", r.Phone)
	assert.Equal(t, "Pune", r.Address)
}

func TestGroupLineDefaults(t *testing.T) {
	groups, _, err := Group(table(
		row(2, "A", "1", map[string]string{types.ColName: "", types.ColEmail: "fallback@example.com"}),
		row(3, "A", "1", map[string]string{types.ColCategory: "Mock Interview", types.ColType: "Paid"}),
	), config.OrderFirstSeen)
	require.NoError(t, err)

	lines := groups[0].Lines
	assert.Equal(t, "fallback@example.com", lines[0].Description)
	assert.Equal(t, "Alumni Connect", lines[0].Category)
	assert.Equal(t, "Enrolled Lead", lines[0].Type)
	assert.Equal(t, "Mock Interview", lines[1].Category)
	assert.Equal(t, "Paid", lines[1].Type)
}

func TestGroupOptionalColumnsAbsent(t *testing.T) {
	rec := types.Record{Fields: map[string]string{}, RowNumber: 2}
	for _, h := range validation.RequiredColumns {
		rec.Fields[h] = "x"
	}
	rec.Fields[types.ColAmount] = "5"

	groups, _, err := Group(&types.Table{Headers: validation.RequiredColumns, Records: []types.Record{rec}}, config.OrderFirstSeen)
	require.NoError(t, err)

	assert.Equal(t, "", groups[0].Recipient.Phone)
	assert.Equal(t, "", groups[0].Recipient.Address)
	assert.Equal(t, "Alumni Connect", groups[0].Lines[0].Category)
}

func TestGroupOrder(t *testing.T) {
	tbl := table(
		row(2, "zeta", "1", nil),
		row(3, "Alpha", "1", nil),
		row(4, "beta", "1", nil),
		row(5, "zeta", "1", nil),
	)

	firstSeen, _, err := Group(tbl, config.OrderFirstSeen)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "Alpha", "beta"}, keys(firstSeen))

	sorted, _, err := Group(tbl, config.OrderSorted)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, keys(sorted))

	again, _, err := Group(tbl, config.OrderFirstSeen)
	require.NoError(t, err)
	assert.Equal(t, keys(firstSeen), keys(again))
}

func TestGroupKeepsNonASCIIVariantsDistinct(t *testing.T) {
	groups, _, err := Group(table(
		row(2, "José", "1", nil),
		row(3, "Jos", "1", nil),
	), config.OrderFirstSeen)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "Jos", groups[0].Recipient.Name)
	assert.Equal(t, "Jos", groups[1].Recipient.Name)
}

func TestGroupSchemaError(t *testing.T) {
	tbl := &types.Table{Headers: []string{types.ColRecipient, types.ColAmount}}

	_, _, err := Group(tbl, config.OrderFirstSeen)

	var schemaErr *validation.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.NotContains(t, schemaErr.Missing, types.ColAmount)
	assert.Contains(t, schemaErr.Missing, types.ColBranch)
}

func TestGroupSkipsBlankRecipient(t *testing.T) {
	groups, skipped, err := Group(table(
		row(2, "A", "10", nil),
		row(3, "", "99", nil),
		row(4, "   ", "5", nil),
	), config.OrderFirstSeen)
	require.NoError(t, err)

	require.Len(t, groups, 1)
	assert.Equal(t, "A", groups[0].Key)
	assert.True(t, decimal.NewFromInt(10).Equal(groups[0].Subtotal))

	assert.Equal(t, []types.CoercionWarning{
		{RowNumber: 3, Field: types.ColRecipient, Value: ""},
		{RowNumber: 4, Field: types.ColRecipient, Value: "   "},
	}, skipped)
}

func TestCounts(t *testing.T) {
	groups, _, err := Group(table(
		row(2, "A", "1", nil),
		row(3, "B", "1", nil),
		row(4, "A", "1", nil),
	), config.OrderFirstSeen)
	require.NoError(t, err)

	assert.Equal(t, []Count{{Recipient: "A", Entries: 2}, {Recipient: "B", Entries: 1}}, Counts(groups))
}

func keys(groups []types.Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}
