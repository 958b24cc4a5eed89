package xlsx

import (
	"fmt"

	"github.com/aerissecure/statement/grid"
)

// Intermediate representation of a grid laid out as an HTML table.

// pxPerPt converts points to CSS pixels.
const pxPerPt = 4.0 / 3.0

// defaultColPx is the width of a column without an explicit width.
const defaultColPx = 64.0

// TableCell is one visible cell, or the master of a merged range.
type TableCell struct {
	Ref     string // e.g. "A1"
	Value   string // as a spreadsheet would display it
	ColSpan int    // 1 if not merged
	RowSpan int    // 1 if not merged
	Format  grid.Format
}

func (c TableCell) String() string {
	return fmt.Sprintf("Ref: %s, Value: %s, ColSpan: %d, RowSpan: %d, Format: %s", c.Ref, c.Value, c.ColSpan, c.RowSpan, c.Format)
}

// TableRow is one grid row. Cells covered by a merge are nil, as are blank
// cells; Covered tells the two apart.
type TableRow struct {
	Number  int
	Cells   []*TableCell
	Covered []bool
}

// Table is a rectangular window onto a grid, starting at row 1.
type Table struct {
	Name      string
	FirstCol  int
	ColWidths []float64 // px
	Rows      []TableRow
}

func (t Table) String() string {
	return fmt.Sprintf("Name: %s, ColWidths: %v, Rows: %d", t.Name, t.ColWidths, len(t.Rows))
}

// BuildTable lays s out row by row from row 1 to its last used row.
func BuildTable(s *grid.Sheet) Table {
	t := Table{Name: s.Name}
	bounds, ok := s.Bounds()
	if !ok {
		return t
	}
	t.FirstCol = bounds.From.Col
	cols := bounds.To.Col - bounds.From.Col + 1

	for c := 0; c < cols; c++ {
		w := defaultColPx
		if pt := s.ColumnWidth(t.FirstCol + c); pt > 0 {
			w = pt * pxPerPt
		}
		t.ColWidths = append(t.ColWidths, w)
	}

	masters := make(map[grid.Cell]grid.Range)
	covered := make(map[grid.Cell]bool)
	for _, m := range s.Merges() {
		masters[m.From] = m
		for _, c := range m.Cells() {
			if c != m.From {
				covered[c] = true
			}
		}
	}

	for r := 1; r <= bounds.To.Row; r++ {
		row := TableRow{Number: r, Cells: make([]*TableCell, cols), Covered: make([]bool, cols)}
		for i := 0; i < cols; i++ {
			at := grid.Cell{Row: r, Col: t.FirstCol + i}
			if covered[at] {
				row.Covered[i] = true
				continue
			}
			cd, ok := s.Cell(at)
			if !ok {
				continue
			}
			tc := &TableCell{
				Ref:     at.Ref(),
				Value:   s.Display(at),
				ColSpan: 1,
				RowSpan: 1,
				Format:  cd.Format,
			}
			if m, ok := masters[at]; ok {
				tc.ColSpan = m.Cols()
				tc.RowSpan = m.Rows()
			}
			row.Cells[i] = tc
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
