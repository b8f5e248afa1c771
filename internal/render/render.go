// =============================================================================
// Payment Advice Generator - Document Renderer
// =============================================================================
//
// This module turns one recipient group into a payment-advice PDF. It only
// decides WHAT is drawn; the layout engine handles cursor state and page
// breaks.
//
// DOCUMENT GRAMMAR (top to bottom):
//   1. Brand mark, top-left
//   2. Recipient name, email, phone (right-aligned, empty ones omitted)
//   3. "Issued to" | "Invoice No" <number>
//   4. Company name | "Date" <DD-MM-YYYY>
//   5. Company address lines
//   6. "Pay to" recipient name and address
//   7. Itemized table: Description, Category, Type, Amount
//   8. Total row
//   9. "Details": banking fields that have a value
//
// =============================================================================

package render

import (
	"fmt"

	"github.com/ginjaninja78/payment-advice-generator/internal/brand"
	"github.com/ginjaninja78/payment-advice-generator/internal/config"
	"github.com/ginjaninja78/payment-advice-generator/internal/fields"
	"github.com/ginjaninja78/payment-advice-generator/internal/layout"
	"github.com/ginjaninja78/payment-advice-generator/internal/sanitize"
	"github.com/ginjaninja78/payment-advice-generator/internal/types"
)

// Creator is written into every document's metadata.
const Creator = "payment-advice-generator"

// DescriptionLimit is the number of characters of a line description shown in
// the table.
const DescriptionLimit = 45

// CurrencyPrefix precedes the total amount.
const CurrencyPrefix = "Rs. "

// =============================================================================
// ERRORS
// =============================================================================

// RenderError reports that the document for one recipient could not be drawn.
type RenderError struct {
	Recipient string
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render invoice for %q: %v", e.Recipient, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer draws payment advices sharing one brand mark.
type Renderer struct {
	logo *brand.Asset
}

// New returns a Renderer. A nil logo leaves the brand corner empty.
func New(logo *brand.Asset) *Renderer {
	return &Renderer{logo: logo}
}

// Render draws the document for one group.
//
// PARAMETERS:
//   - group: The recipient's aggregated records.
//   - number: The invoice number printed on the document.
//   - settings: Company identity and issue date for the run.
//
// RETURNS:
//   - The PDF bytes.
//   - A *RenderError if the document cannot be produced.
func (r *Renderer) Render(group types.Group, number int, settings config.Settings) ([]byte, error) {
	inv := BuildInvoice(group, number, settings)

	out, err := layout.Render(Layout(inv, r.logo))
	if err != nil {
		return nil, &RenderError{Recipient: group.Key, Err: err}
	}
	return out.Bytes, nil
}

// BuildInvoice assembles the document content for a group.
func BuildInvoice(group types.Group, number int, settings config.Settings) types.Invoice {
	return types.Invoice{
		Number:       number,
		IssueDate:    settings.InvoiceDate,
		Recipient:    group.Recipient,
		Lines:        group.Lines,
		Total:        group.Subtotal,
		CompanyName:  sanitize.String(settings.CompanyName),
		AddressLine1: sanitize.String(settings.AddressLine1),
		AddressLine2: sanitize.String(settings.AddressLine2),
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

var (
	bold16    = layout.Font{Style: layout.Bold, Size: 16}
	bold12    = layout.Font{Style: layout.Bold, Size: 12}
	bold11    = layout.Font{Style: layout.Bold, Size: 11}
	regular12 = layout.Font{Size: 12}
	regular10 = layout.Font{Size: 10}
	regular9  = layout.Font{Size: 9}
)

// Layout returns the block list for an invoice.
func Layout(inv types.Invoice, logo *brand.Asset) layout.Document {
	doc := layout.Document{
		Title:   fmt.Sprintf("Invoice %d", inv.Number),
		Author:  inv.CompanyName,
		Creator: Creator,
		Created: inv.IssueDate,
	}

	if logo != nil {
		doc.Blocks = append(doc.Blocks, layout.ImageBlock{
			Name:   "brand",
			Data:   logo.Data,
			Format: logo.Format,
			X:      10,
			Y:      8,
			W:      35,
		})
	}

	doc.Blocks = append(doc.Blocks,
		layout.SpaceBlock{Height: 25},
		headerBlock(inv.Recipient),
		layout.SpaceBlock{Height: 5},
		billingBlock(inv),
		layout.SpaceBlock{Height: 5},
		payToBlock(inv.Recipient),
		layout.SpaceBlock{Height: 5},
		tableBlock(inv.Lines),
		layout.SpaceBlock{Height: 5},
		totalBlock(inv),
		layout.SpaceBlock{Height: 10},
		detailsBlock(inv.Recipient.Banking),
	)

	return doc
}

func headerBlock(r types.Recipient) layout.RowsBlock {
	block := layout.RowsBlock{Name: "header"}
	block.Rows = append(block.Rows, single(8, r.Name, layout.AlignRight, bold16))
	if r.Email != "" {
		block.Rows = append(block.Rows, single(6, r.Email, layout.AlignRight, regular10))
	}
	if r.Phone != "" {
		block.Rows = append(block.Rows, single(6, r.Phone, layout.AlignRight, regular10))
	}
	return block
}

func billingBlock(inv types.Invoice) layout.RowsBlock {
	return layout.RowsBlock{
		Name: "billing",
		Rows: []layout.Row{
			{Height: 8, Cells: []layout.Cell{
				{Width: 100, Text: "Issued to", Align: layout.AlignLeft, Font: bold12},
				{Width: 45, Text: "Invoice No", Align: layout.AlignRight, Font: bold12},
				{Text: fmt.Sprintf("%d", inv.Number), Align: layout.AlignRight, Font: regular12},
			}},
			{Height: 6, Cells: []layout.Cell{
				{Width: 100, Text: inv.CompanyName, Align: layout.AlignLeft, Font: regular10},
				{Width: 45, Text: "Date", Align: layout.AlignRight, Font: bold12},
				{Text: Date(inv.IssueDate), Align: layout.AlignRight, Font: regular12},
			}},
			single(6, inv.AddressLine1, layout.AlignLeft, regular10),
			single(6, inv.AddressLine2, layout.AlignLeft, regular10),
		},
	}
}

func payToBlock(r types.Recipient) layout.RowsBlock {
	block := layout.RowsBlock{
		Name: "pay-to",
		Rows: []layout.Row{
			single(8, "Pay to", layout.AlignLeft, bold12),
			single(6, r.Name, layout.AlignLeft, regular10),
		},
	}
	if r.Address != "" {
		block.Rows = append(block.Rows, single(6, r.Address, layout.AlignLeft, regular10))
	}
	return block
}

func tableBlock(lines []types.LineItem) layout.TableBlock {
	body := make([][]string, len(lines))
	for i, line := range lines {
		body[i] = []string{line.Description, line.Category, line.Type, lineAmount(line)}
	}

	return layout.TableBlock{
		Name: "items",
		Columns: []layout.Column{
			{Title: "Description", Width: 80, Align: layout.AlignLeft, MaxChars: DescriptionLimit},
			{Title: "Category", Width: 45, Align: layout.AlignLeft},
			{Title: "Type", Width: 35, Align: layout.AlignLeft},
			{Title: "Amount", Width: 30, Align: layout.AlignRight},
		},
		HeaderHeight: 10,
		HeaderFont:   bold11,
		HeaderFill:   layout.Black,
		HeaderText:   layout.White,
		RowHeight:    8,
		BodyFont:     regular9,
		Body:         body,
	}
}

func totalBlock(inv types.Invoice) layout.RowsBlock {
	return layout.RowsBlock{
		Name: "total",
		Rows: []layout.Row{{Height: 10, Cells: []layout.Cell{
			{Width: 160, Text: "Total", Align: layout.AlignLeft, Font: bold12, Border: true},
			{Width: 30, Text: CurrencyPrefix + Money(inv.Total), Align: layout.AlignRight, Font: bold12, Border: true},
		}}},
	}
}

func detailsBlock(b types.Banking) layout.RowsBlock {
	block := layout.RowsBlock{
		Name: "details",
		Rows: []layout.Row{single(8, "Details", layout.AlignLeft, bold12)},
	}

	for _, d := range []struct{ label, value string }{
		{"Account Holder", b.AccountHolder},
		{"Pan Number", b.PAN},
		{"Bank", b.Bank},
		{"Account Number", b.AccountNumber},
		{"IFSC Code", b.IFSC},
		{"Branch", b.Branch},
	} {
		if !fields.IsDisplayable(d.value) {
			continue
		}
		block.Rows = append(block.Rows, layout.Row{Height: 6, Cells: []layout.Cell{
			{Width: 50, Text: d.label, Font: regular10},
			{Width: 10, Text: ":", Font: regular10},
			{Text: d.value, Font: regular10},
		}})
	}
	return block
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

func single(height float64, text string, align layout.Align, font layout.Font) layout.Row {
	return layout.Row{Height: height, Cells: []layout.Cell{{Text: text, Align: align, Font: font}}}
}

// lineAmount is the formatted amount, or the raw cell text when it did not
// parse.
func lineAmount(line types.LineItem) string {
	if !line.Parsed {
		return line.RawAmount
	}
	return Money(line.Amount)
}
