package xlsx

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/statement"
	"github.com/aerissecure/statement/excel"
	"github.com/aerissecure/statement/grid"
)

func balanceInput() statement.Input {
	return statement.Input{
		Company: "Contoso Ltd",
		Date:    "2024-12-31",
		Figures: map[string]float64{
			"cash":               50000,
			"accountsReceivable": 35000,
			"inventory":          45000,
			"prepaidExpenses":    5000,
			"ppe":                200000,
			"depreciation":       50000,
		},
	}
}

func renderWorkbook(t *testing.T, l statement.Layout) []byte {
	t.Helper()
	var buf bytes.Buffer
	sink := NewSink(&buf, l.Name)
	require.NoError(t, statement.Renderer{}.Render(context.Background(), sink, l, balanceInput()))
	require.NotZero(t, buf.Len())
	return buf.Bytes()
}

func cellAt(t *testing.T, s *grid.Sheet, ref string) grid.CellData {
	t.Helper()
	c, err := grid.ParseCell(ref)
	require.NoError(t, err)
	cd, ok := s.Cell(c)
	require.True(t, ok, ref)
	return cd
}

func TestSink_RoundTrip(t *testing.T) {
	// Given a balance sheet saved as a workbook
	data := renderWorkbook(t, statement.BalanceSheet())

	// When it is read back
	sheet, err := Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	// Then labels, values and formulas survive
	assert.Equal(t, "Balance Sheet", sheet.Name)
	assert.Equal(t, "Contoso Ltd", cellAt(t, sheet, "A1").Value)
	assert.Equal(t, "As of December 31, 2024", cellAt(t, sheet, "A3").Value)
	assert.Equal(t, 50000.0, cellAt(t, sheet, "B7").Value)
	assert.Equal(t, -50000.0, cellAt(t, sheet, "B15").Value)
	assert.Equal(t, "=SUM(B7:B10)", cellAt(t, sheet, "B11").Formula)
	assert.Equal(t, "=B11+B18", cellAt(t, sheet, "B20").Formula)
	assert.Equal(t, "=B35+B41", cellAt(t, sheet, "B43").Formula)

	v, err := sheet.Value(grid.Cell{Row: 11, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, "135000", v.String())

	// And so do styles, merges and widths
	banner := cellAt(t, sheet, "A5").Format
	assert.True(t, banner.Bold)
	assert.Equal(t, "4472C4", banner.FillColor)
	assert.Equal(t, "FFFFFF", banner.FontColor)
	assert.InDelta(t, 12, banner.FontSize, 0.001)

	grand := cellAt(t, sheet, "B20").Format
	assert.Equal(t, grid.LineDouble, grand.Border.Top)
	assert.Equal(t, grid.LineDouble, grand.Border.Bottom)
	assert.Equal(t, grid.CurrencyFormat, grand.NumberFormat)
	assert.Equal(t, "right", grand.HAlign)

	assert.True(t, cellAt(t, sheet, "A6").Format.Underline)
	assert.Equal(t, grid.LineThin, cellAt(t, sheet, "A12").Format.Border.Left)

	var merges []string
	for _, m := range sheet.Merges() {
		merges = append(merges, m.Ref())
	}
	assert.ElementsMatch(t, []string{"A5:B5", "A22:B22", "A37:B37"}, merges)
	assert.InDelta(t, 280, sheet.ColumnWidth(0), 0.01)
	assert.InDelta(t, 120, sheet.ColumnWidth(1), 0.01)
}

func TestRead_SharedStringsFromExcelize(t *testing.T) {
	// Given a balance sheet written by excelize, which stores text as
	// shared strings behind an absolute part name
	var buf bytes.Buffer
	sink, err := excel.NewSink(&buf, "Balance Sheet")
	require.NoError(t, err)
	require.NoError(t, statement.Renderer{}.Render(context.Background(), sink, statement.BalanceSheet(), balanceInput()))
	require.NoError(t, sink.Close())

	// When it is read back
	sheet, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	// Then text cells keep their strings
	assert.Equal(t, "Contoso Ltd", cellAt(t, sheet, "A1").Value)
	assert.Equal(t, "Balance Sheet", cellAt(t, sheet, "A2").Value)
	assert.Equal(t, "TOTAL ASSETS", cellAt(t, sheet, "A20").Value)
	assert.Equal(t, 50000.0, cellAt(t, sheet, "B7").Value)
	assert.Equal(t, "=B35+B41", cellAt(t, sheet, "B43").Formula)
}

func TestSink_DeduplicatesStyles(t *testing.T) {
	sink := NewSink(nil, "x")
	f := grid.Format{Bold: true, FillColor: "E7E6E6"}
	require.NoError(t, sink.ApplyFormat(grid.Range{From: grid.Cell{Row: 1}, To: grid.Cell{Row: 3, Col: 1}}, f))
	require.NoError(t, sink.ApplyFormat(grid.Single(grid.Cell{Row: 9}), f))
	require.NoError(t, sink.Commit())

	assert.Equal(t, 1, sink.StyleCount())
}

func TestSink_ClearRemovesCellsAndMerges(t *testing.T) {
	sink := NewSink(nil, "x")
	require.NoError(t, sink.WriteValues(grid.Cell{Row: 1}, [][]any{{"a", 1.0}, {"b", 2.0}}))
	require.NoError(t, sink.ApplyFormat(grid.Range{From: grid.Cell{Row: 1}, To: grid.Cell{Row: 1, Col: 1}}, grid.Format{Merge: true}))
	require.NoError(t, sink.WriteValues(grid.Cell{Row: 5}, [][]any{{"kept"}}))

	require.NoError(t, sink.Clear(grid.Range{From: grid.Cell{Row: 1}, To: grid.Cell{Row: 2, Col: 1}}))

	ws := sink.Workbook().Sheets()[0]
	assert.Equal(t, "kept", ws.Cell("A5").GetString())
	assert.True(t, ws.Cell("A1").IsEmpty())
	assert.True(t, ws.Cell("B2").IsEmpty())
	require.NotNil(t, ws.X().MergeCells)
	assert.Empty(t, ws.X().MergeCells.MergeCell)
}

func TestSink_RejectsUnknownValues(t *testing.T) {
	sink := NewSink(nil, "x")
	err := sink.WriteValues(grid.Cell{Row: 1}, [][]any{{struct{}{}}})
	assert.ErrorContains(t, err, "unsupported value")
}

func TestHTML(t *testing.T) {
	sheet := grid.NewSheet("Income Statement")
	require.NoError(t, statement.Renderer{}.Render(context.Background(), sheet, statement.IncomeStatement(), balanceInput()))

	out := HTML(sheet)

	assert.Contains(t, out, `data-name="Income Statement"`)
	assert.Contains(t, out, `<td data-cell="A5" colspan="2"`)
	assert.NotContains(t, out, `data-cell="B5"`)
	assert.Contains(t, out, "background-color:#4472C4;")
	assert.Contains(t, out, "border-top:3px double #000;")
	assert.Contains(t, out, "$127,500")
	assert.Contains(t, out, "&nbsp;&nbsp;Sales Revenue")
	assert.Equal(t, 30, strings.Count(out, "<tr "))
}

func TestBuildTable(t *testing.T) {
	sheet := grid.NewSheet("t")
	require.NoError(t, sheet.WriteValues(grid.Cell{Row: 2, Col: 1}, [][]any{{"x", 2.0}}))
	require.NoError(t, sheet.ApplyFormat(grid.Range{From: grid.Cell{Row: 2, Col: 1}, To: grid.Cell{Row: 2, Col: 2}}, grid.Format{Merge: true, ColumnWidth: 30}))

	tbl := BuildTable(sheet)

	assert.Equal(t, 1, tbl.FirstCol)
	require.Len(t, tbl.Rows, 2)
	assert.Nil(t, tbl.Rows[0].Cells[0])
	master := tbl.Rows[1].Cells[0]
	require.NotNil(t, master)
	assert.Equal(t, "B2", master.Ref)
	assert.Equal(t, 2, master.ColSpan)
	assert.True(t, tbl.Rows[1].Covered[1])
	assert.InDelta(t, 40, tbl.ColWidths[0], 0.001)
}
