// Package grid holds the coordinate system, format directives and write
// target shared by the statement renderer and its sinks.
package grid

import (
	"fmt"

	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// Cell is a grid coordinate. Row is 1-based like a worksheet row number,
// Col is 0-based like reference.ColumnToIndex.
type Cell struct {
	Row int
	Col int
}

// Ref returns the A1 style reference, e.g. "B11".
func (c Cell) Ref() string {
	return fmt.Sprintf("%s%d", reference.IndexToColumn(uint32(c.Col)), c.Row)
}

func (c Cell) String() string { return c.Ref() }

// Offset returns the cell dr rows down and dc columns right.
func (c Cell) Offset(dr, dc int) Cell {
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// ParseCell parses an A1 reference. Absolute markers are accepted and dropped.
func ParseCell(ref string) (Cell, error) {
	cr, err := reference.ParseCellReference(ref)
	if err != nil {
		return Cell{}, fmt.Errorf("parse cell %q: %w", ref, err)
	}
	if cr.RowIdx == 0 {
		return Cell{}, fmt.Errorf("parse cell %q: missing row", ref)
	}
	return Cell{Row: int(cr.RowIdx), Col: int(cr.ColumnIdx)}, nil
}

// Range is an inclusive rectangle of cells.
type Range struct {
	From Cell
	To   Cell
}

// Span returns the range covering from and to in any order.
func Span(from, to Cell) Range {
	r := Range{From: from, To: to}
	if r.From.Row > r.To.Row {
		r.From.Row, r.To.Row = r.To.Row, r.From.Row
	}
	if r.From.Col > r.To.Col {
		r.From.Col, r.To.Col = r.To.Col, r.From.Col
	}
	return r
}

// Single returns the one-cell range at c.
func Single(c Cell) Range { return Range{From: c, To: c} }

// Ref returns "A5:B5", or "B20" for a single cell.
func (r Range) Ref() string {
	if r.From == r.To {
		return r.From.Ref()
	}
	return r.From.Ref() + ":" + r.To.Ref()
}

func (r Range) String() string { return r.Ref() }

// Contains reports whether c lies inside r.
func (r Range) Contains(c Cell) bool {
	return c.Row >= r.From.Row && c.Row <= r.To.Row &&
		c.Col >= r.From.Col && c.Col <= r.To.Col
}

// Overlaps reports whether r and o share at least one cell.
func (r Range) Overlaps(o Range) bool {
	return r.From.Row <= o.To.Row && o.From.Row <= r.To.Row &&
		r.From.Col <= o.To.Col && o.From.Col <= r.To.Col
}

// Rows is the number of rows in r.
func (r Range) Rows() int { return r.To.Row - r.From.Row + 1 }

// Cols is the number of columns in r.
func (r Range) Cols() int { return r.To.Col - r.From.Col + 1 }

// Cells lists every cell of r in row-major order.
func (r Range) Cells() []Cell {
	out := make([]Cell, 0, r.Rows()*r.Cols())
	for row := r.From.Row; row <= r.To.Row; row++ {
		for col := r.From.Col; col <= r.To.Col; col++ {
			out = append(out, Cell{Row: row, Col: col})
		}
	}
	return out
}
