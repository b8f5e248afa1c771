package layout

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(Document{
		Title:   "Invoice",
		Created: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Blocks: []Block{
			ImageBlock{Data: pngBytes(t), Format: "PNG", X: 10, Y: 8, W: 35},
			SpaceBlock{Height: 25},
			RowsBlock{Name: "header", Rows: []Row{{
				Height: 8,
				Cells:  []Cell{{Width: 0, Text: "José Café", Align: AlignRight, Font: Font{Style: Bold, Size: 16}}},
			}}},
		},
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out.Bytes, []byte("%PDF-")))
	assert.Equal(t, 1, out.Pages)
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := Document{
		Created: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Blocks: []Block{
			RowsBlock{Rows: []Row{{Height: 6, Cells: []Cell{{Text: "same"}}}}},
		},
	}

	a, err := Render(doc)
	require.NoError(t, err)
	b, err := Render(doc)
	require.NoError(t, err)

	assert.Equal(t, a.Bytes, b.Bytes)
}

func TestRenderBreaksLongTables(t *testing.T) {
	body := make([][]string, 80)
	for i := range body {
		body[i] = []string{"row", "1.00"}
	}

	out, err := Render(Document{Blocks: []Block{
		TableBlock{
			Columns:      []Column{{Title: "Description", Width: 160}, {Title: "Amount", Width: 30, Align: AlignRight}},
			HeaderHeight: 10,
			RowHeight:    8,
			Body:         body,
		},
	}})
	require.NoError(t, err)

	assert.Greater(t, out.Pages, 1)
}

func TestRenderRejectsBadImage(t *testing.T) {
	_, err := Render(Document{Blocks: []Block{
		ImageBlock{Data: []byte("not an image"), Format: "PNG", W: 35},
	}})
	assert.Error(t, err)
}

func TestTableRows(t *testing.T) {
	table := TableBlock{
		Columns: []Column{
			{Title: "Description", Width: 80, MaxChars: 5},
			{Title: "Amount", Width: 30, Align: AlignRight},
		},
		HeaderFill: Black,
		HeaderText: White,
		Body:       [][]string{{"abcdefgh", "1.00"}, {"short"}},
	}

	rows := table.Rows()
	require.Len(t, rows, 3)

	header := rows[0].Cells
	assert.Equal(t, "Description", header[0].Text)
	assert.Equal(t, AlignLeft, header[0].Align)
	require.NotNil(t, header[0].Fill)
	assert.Equal(t, Black, *header[0].Fill)
	assert.Equal(t, White, *header[0].TextColor)

	assert.Equal(t, "abcde", rows[1].Cells[0].Text)
	assert.Equal(t, AlignRight, rows[1].Cells[1].Align)
	assert.Equal(t, "", rows[2].Cells[1].Text)
}
