// =============================================================================
// Payment Advice Generator - Layout Blocks
// =============================================================================
//
// A document is described as an ordered list of declarative blocks. Blocks say
// WHAT goes on the page (text, widths, alignment, fills); the engine in
// engine.go decides WHERE, tracking the cursor and breaking pages when the
// content runs past the bottom margin.
//
// BLOCK TYPES:
//   - ImageBlock : an image at a fixed position, not moving the cursor
//   - SpaceBlock : vertical gap
//   - RowsBlock  : one or more rows of cells, drawn left to right
//   - TableBlock : a header row plus body rows sharing column definitions
//
// =============================================================================

package layout

import "time"

// Align is a horizontal text alignment inside a cell.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Font styles.
const (
	Regular = ""
	Bold    = "B"
	Italic  = "I"
)

// Color is an RGB color, components 0-255.
type Color struct {
	R, G, B int
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// Font is a style and size within the document's font family.
type Font struct {
	Style string
	Size  float64
}

// Cell is a single box of text.
type Cell struct {
	// Width in document units. Zero extends the cell to the right margin.
	Width float64

	Text  string
	Align Align
	Font  Font

	// Border draws a frame around the cell.
	Border bool

	// Fill paints the cell background when set.
	Fill *Color

	// TextColor defaults to black.
	TextColor *Color
}

// Row is a line of cells sharing one height.
type Row struct {
	Height float64
	Cells  []Cell
}

// Block is one element of a document's layout.
type Block interface {
	blockName() string
}

// ImageBlock places an image at an absolute position on the current page.
type ImageBlock struct {
	Name string

	// Data is the encoded image; Format is "PNG", "JPG" or "GIF".
	Data   []byte
	Format string

	X, Y float64

	// W is the drawn width; the height keeps the aspect ratio.
	W float64
}

// SpaceBlock advances the cursor vertically.
type SpaceBlock struct {
	Height float64
}

// RowsBlock draws rows top to bottom.
type RowsBlock struct {
	Name string
	Rows []Row
}

// Column describes one column of a TableBlock.
type Column struct {
	Title string
	Width float64
	Align Align

	// MaxChars truncates body text when positive.
	MaxChars int
}

// TableBlock is a bordered table with a filled header row.
type TableBlock struct {
	Name    string
	Columns []Column

	HeaderHeight float64
	HeaderFont   Font
	HeaderFill   Color
	HeaderText   Color

	RowHeight float64
	BodyFont  Font

	// Body holds one slice of cell texts per row, in column order.
	Body [][]string
}

func (ImageBlock) blockName() string   { return "image" }
func (SpaceBlock) blockName() string   { return "space" }
func (b RowsBlock) blockName() string  { return b.Name }
func (b TableBlock) blockName() string { return b.Name }

// Rows expands the table into plain rows: the header first, then the body.
func (b TableBlock) Rows() []Row {
	rows := make([]Row, 0, len(b.Body)+1)

	header := Row{Height: b.HeaderHeight}
	fill := b.HeaderFill
	text := b.HeaderText
	for _, col := range b.Columns {
		header.Cells = append(header.Cells, Cell{
			Width:     col.Width,
			Text:      col.Title,
			Align:     headerAlign(col.Align),
			Font:      b.HeaderFont,
			Border:    true,
			Fill:      &fill,
			TextColor: &text,
		})
	}
	rows = append(rows, header)

	for _, values := range b.Body {
		row := Row{Height: b.RowHeight}
		for i, col := range b.Columns {
			var value string
			if i < len(values) {
				value = values[i]
			}
			if col.MaxChars > 0 && len(value) > col.MaxChars {
				value = value[:col.MaxChars]
			}
			row.Cells = append(row.Cells, Cell{
				Width:  col.Width,
				Text:   value,
				Align:  col.Align,
				Font:   b.BodyFont,
				Border: true,
			})
		}
		rows = append(rows, row)
	}

	return rows
}

func headerAlign(a Align) Align {
	if a == "" {
		return AlignLeft
	}
	return a
}

// Margins are the page margins in document units.
type Margins struct {
	Left, Top, Right float64
}

// Document is a complete layout ready for the engine.
type Document struct {
	// Orientation "P" or "L", Size "A4", "Letter", ... Unit "mm", "pt", ...
	Orientation string
	Size        string
	Unit        string

	FontFamily string
	Margins    Margins

	// BreakMargin is the bottom distance that triggers a new page.
	BreakMargin float64

	Title   string
	Author  string
	Creator string
	Created time.Time

	Blocks []Block
}
