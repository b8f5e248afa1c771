// Package aggregate groups input records by recipient and computes each
// group's subtotal.
package aggregate

import (
	"sort"
	"strings"

	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/fields"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
	"github.com/ginjaninja78/payment-advice-generator/internal/validation"
	"github.com/shopspring/decimal"
)

// Group validates the table's schema and groups its records by the raw
// recipient identity.
//
// Groups come back in the requested order; records inside a group keep their
// input order. Recipient details are taken from each group's first record.
// An amount that does not parse is left out of the subtotal but still
// produces a line item and a CoercionWarning.
//
// A record with a blank recipient belongs to no group. It is returned in
// skipped as a CoercionWarning on the recipient column.
func Group(table *types.Table, order config.GroupOrder) (groups []types.Group, skipped []types.CoercionWarning, err error) {
	if err := validation.ValidateTable(table); err != nil {
		return nil, nil, err
	}

	index := make(map[string]int)

	for _, rec := range table.Records {
		key, _ := rec.Get(types.ColRecipient)
		if strings.TrimSpace(key) == "" {
			skipped = append(skipped, types.CoercionWarning{
				RowNumber: rec.RowNumber,
				Field:     types.ColRecipient,
				Value:     key,
			})
			continue
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, types.Group{
				Key:       key,
				Recipient: recipientFrom(rec),
				Subtotal:  decimal.Zero,
			})
		}

		addRecord(&groups[i], rec)
	}

	if order == config.OrderSorted {
		sort.SliceStable(groups, func(a, b int) bool {
			return groups[a].Key < groups[b].Key
		})
	}

	return groups, skipped, nil
}

// Count is the number of records for one recipient.
type Count struct {
	Recipient string
	Entries   int
}

// Counts returns the number of entries per recipient, in group order.
func Counts(groups []types.Group) []Count {
	counts := make([]Count, len(groups))
	for i, g := range groups {
		counts[i] = Count{Recipient: g.Key, Entries: len(g.Records)}
	}
	return counts
}

func addRecord(g *types.Group, rec types.Record) {
	g.Records = append(g.Records, rec)

	raw, _ := rec.Get(types.ColAmount)
	amount := fields.ParseAmount(raw)

	line := types.LineItem{
		Description: description(rec),
		Category:    fields.TextOr(rec, types.ColCategory, fields.DefaultCategory),
		Type:        fields.TextOr(rec, types.ColType, fields.DefaultType),
		Amount:      amount.Value,
		Parsed:      amount.Parsed,
		RawAmount:   amount.Raw,
		RowNumber:   rec.RowNumber,
	}
	g.Lines = append(g.Lines, line)

	if amount.Parsed {
		g.Subtotal = g.Subtotal.Add(amount.Value)
		return
	}

	g.Warnings = append(g.Warnings, types.CoercionWarning{
		RowNumber: rec.RowNumber,
		Field:     types.ColAmount,
		Value:     raw,
	})
}

// description is the row's Name, or its Email when Name is blank.
func description(rec types.Record) string {
	if name := fields.Text(rec, types.ColName); name != "" {
		return name
	}
	return fields.Text(rec, types.ColEmail)
}

func recipientFrom(rec types.Record) types.Recipient {
	return types.Recipient{
		Name:    fields.Text(rec, types.ColRecipient),
		Email:   fields.Text(rec, types.ColEmail),
		Phone:   fields.Identifier(rec, types.ColPhone),
		Address: fields.Text(rec, types.ColAddress),
		Banking: types.Banking{
			AccountHolder: fields.Text(rec, types.ColAccountHolder),
			PAN:           fields.Text(rec, types.ColPAN),
			Bank:          fields.Text(rec, types.ColBank),
			AccountNumber: fields.Identifier(rec, types.ColAccountNumber),
			IFSC:          fields.Text(rec, types.ColIFSC),
			Branch:        fields.Text(rec, types.ColBranch),
		},
	}
}
