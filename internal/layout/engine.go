// =============================================================================
// Payment Advice Generator - Layout Engine
// =============================================================================
//
// The engine turns a Document into PDF bytes using gofpdf. It walks the blocks
// in order, keeps the cursor position, and lets gofpdf's automatic page break
// move rows that would cross the bottom margin onto a new page.
//
// Every piece of text passes through the sanitizer before it is drawn, since
// the core fonts only cover the ASCII range.
//
// =============================================================================

package layout

import (
	"bytes"
	"fmt"

	"github.com/ginjaninja78/payment-advice-generator/internal/sanitize"
	"github.com/jung-kurt/gofpdf"
)

// Defaults applied to zero-valued Document fields.
const (
	DefaultOrientation = "P"
	DefaultSize        = "A4"
	DefaultUnit        = "mm"
	DefaultFontFamily  = "Helvetica"
	DefaultMargin      = 10.0
	DefaultBreakMargin = 15.0
)

// Output is a rendered document.
type Output struct {
	Bytes []byte
	Pages int
}

// =============================================================================
// RENDERING
// =============================================================================

// Render draws the document and returns the encoded PDF.
//
// PARAMETERS:
//   - doc: The document to draw. Zero-valued page settings take the defaults.
//
// RETURNS:
//   - The PDF bytes and page count.
//   - An error if an image cannot be decoded or the PDF cannot be written.
func Render(doc Document) (*Output, error) {
	doc = withDefaults(doc)

	pdf := gofpdf.New(doc.Orientation, doc.Unit, doc.Size, "")
	pdf.SetMargins(doc.Margins.Left, doc.Margins.Top, doc.Margins.Right)
	pdf.SetAutoPageBreak(true, doc.BreakMargin)
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)

	if doc.Title != "" {
		pdf.SetTitle(sanitize.String(doc.Title), false)
	}
	if doc.Author != "" {
		pdf.SetAuthor(sanitize.String(doc.Author), false)
	}
	if doc.Creator != "" {
		pdf.SetCreator(sanitize.String(doc.Creator), false)
	}
	if !doc.Created.IsZero() {
		pdf.SetCreationDate(doc.Created)
	}

	pdf.AddPage()

	e := &engine{pdf: pdf, family: doc.FontFamily}
	for _, block := range doc.Blocks {
		if err := e.draw(block); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}

	return &Output{Bytes: buf.Bytes(), Pages: pdf.PageCount()}, nil
}

type engine struct {
	pdf    *gofpdf.Fpdf
	family string
	images int
}

func (e *engine) draw(block Block) error {
	switch b := block.(type) {
	case ImageBlock:
		return e.image(b)
	case SpaceBlock:
		e.pdf.Ln(b.Height)
	case RowsBlock:
		for _, row := range b.Rows {
			e.row(row)
		}
	case TableBlock:
		for _, row := range b.Rows() {
			e.row(row)
		}
	default:
		return fmt.Errorf("unsupported block %T", block)
	}

	if e.pdf.Err() {
		return fmt.Errorf("failed to draw %s block: %w", block.blockName(), e.pdf.Error())
	}
	return nil
}

func (e *engine) image(b ImageBlock) error {
	if len(b.Data) == 0 {
		return nil
	}

	e.images++
	name := b.Name
	if name == "" {
		name = fmt.Sprintf("image%d", e.images)
	}

	opts := gofpdf.ImageOptions{ImageType: b.Format}
	e.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(b.Data))
	if e.pdf.Err() {
		return fmt.Errorf("failed to load image %q: %w", name, e.pdf.Error())
	}

	e.pdf.ImageOptions(name, b.X, b.Y, b.W, 0, false, opts, 0, "")
	if e.pdf.Err() {
		return fmt.Errorf("failed to place image %q: %w", name, e.pdf.Error())
	}
	return nil
}

func (e *engine) row(row Row) {
	last := len(row.Cells) - 1
	for i, cell := range row.Cells {
		ln := 0
		if i == last {
			ln = 1
		}
		e.cell(cell, row.Height, ln)
	}
}

func (e *engine) cell(c Cell, height float64, ln int) {
	e.pdf.SetFont(e.family, c.Font.Style, fontSize(c.Font))

	text := Black
	if c.TextColor != nil {
		text = *c.TextColor
	}
	e.pdf.SetTextColor(text.R, text.G, text.B)

	fill := false
	if c.Fill != nil {
		e.pdf.SetFillColor(c.Fill.R, c.Fill.G, c.Fill.B)
		fill = true
	}

	border := ""
	if c.Border {
		border = "1"
	}

	align := string(c.Align)
	if align == "" {
		align = string(AlignLeft)
	}

	e.pdf.CellFormat(c.Width, height, sanitize.String(c.Text), border, ln, align, fill, 0, "")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

func withDefaults(doc Document) Document {
	if doc.Orientation == "" {
		doc.Orientation = DefaultOrientation
	}
	if doc.Size == "" {
		doc.Size = DefaultSize
	}
	if doc.Unit == "" {
		doc.Unit = DefaultUnit
	}
	if doc.FontFamily == "" {
		doc.FontFamily = DefaultFontFamily
	}
	if doc.Margins == (Margins{}) {
		doc.Margins = Margins{Left: DefaultMargin, Top: DefaultMargin, Right: DefaultMargin}
	}
	if doc.BreakMargin == 0 {
		doc.BreakMargin = DefaultBreakMargin
	}
	return doc
}

func fontSize(f Font) float64 {
	if f.Size <= 0 {
		return 10
	}
	return f.Size
}
