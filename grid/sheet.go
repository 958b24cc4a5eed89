package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// OpKind names a Sink operation recorded by Sheet.
type OpKind string

const (
	OpClear    OpKind = "clear"
	OpValues   OpKind = "values"
	OpFormulas OpKind = "formulas"
	OpFormat   OpKind = "format"
	OpCommit   OpKind = "commit"
)

// Op is one recorded Sink call.
type Op struct {
	Kind     OpKind
	Range    Range
	Values   [][]any
	Formulas [][]string
	Format   Format
}

// CellData is the content of one grid cell.
type CellData struct {
	Value   any // string or float64
	Formula string
	Format  Format
}

// Sheet is an in-memory Sink. It records every call in order, keeps the
// resulting cells, and can evaluate the formulas written into it.
type Sheet struct {
	Name string

	// FailOn makes the named operation return FailErr, for exercising
	// error paths of callers.
	FailOn  OpKind
	FailErr error

	cells     map[Cell]*CellData
	merges    []Range
	widths    map[int]float64
	ops       []Op
	committed int
}

var _ Sink = (*Sheet)(nil)

// NewSheet returns an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:   name,
		cells:  make(map[Cell]*CellData),
		widths: make(map[int]float64),
	}
}

func (s *Sheet) fail(kind OpKind) error {
	if s.FailOn == kind && s.FailErr != nil {
		return s.FailErr
	}
	return nil
}

func (s *Sheet) cell(c Cell) *CellData {
	cd, ok := s.cells[c]
	if !ok {
		cd = &CellData{}
		s.cells[c] = cd
	}
	return cd
}

func (s *Sheet) Clear(r Range) error {
	if err := s.fail(OpClear); err != nil {
		return err
	}
	s.ops = append(s.ops, Op{Kind: OpClear, Range: r})
	for c := range s.cells {
		if r.Contains(c) {
			delete(s.cells, c)
		}
	}
	kept := s.merges[:0]
	for _, m := range s.merges {
		if !r.Overlaps(m) {
			kept = append(kept, m)
		}
	}
	s.merges = kept
	return nil
}

func (s *Sheet) WriteValues(anchor Cell, values [][]any) error {
	if err := s.fail(OpValues); err != nil {
		return err
	}
	s.ops = append(s.ops, Op{Kind: OpValues, Range: blockRange(anchor, len(values), widest(values)), Values: values})
	for i, row := range values {
		for j, v := range row {
			if v == nil {
				continue
			}
			cd := s.cell(anchor.Offset(i, j))
			cd.Formula = ""
			switch n := v.(type) {
			case int:
				cd.Value = float64(n)
			default:
				cd.Value = v
			}
		}
	}
	return nil
}

func (s *Sheet) WriteFormulas(anchor Cell, formulas [][]string) error {
	if err := s.fail(OpFormulas); err != nil {
		return err
	}
	s.ops = append(s.ops, Op{Kind: OpFormulas, Range: blockRange(anchor, len(formulas), widest(formulas)), Formulas: formulas})
	for i, row := range formulas {
		for j, f := range row {
			if f == "" {
				continue
			}
			cd := s.cell(anchor.Offset(i, j))
			cd.Value = nil
			cd.Formula = f
		}
	}
	return nil
}

func (s *Sheet) ApplyFormat(r Range, f Format) error {
	if err := s.fail(OpFormat); err != nil {
		return err
	}
	s.ops = append(s.ops, Op{Kind: OpFormat, Range: r, Format: f})
	for _, c := range r.Cells() {
		cd := s.cell(c)
		merged, err := cd.Format.Overlay(f.At(r, c))
		if err != nil {
			return err
		}
		cd.Format = merged
	}
	if f.Merge && (r.Rows() > 1 || r.Cols() > 1) {
		s.merges = append(s.merges, r)
	}
	if f.ColumnWidth > 0 {
		for col := r.From.Col; col <= r.To.Col; col++ {
			s.widths[col] = f.ColumnWidth
		}
	}
	return nil
}

func (s *Sheet) Commit() error {
	if err := s.fail(OpCommit); err != nil {
		return err
	}
	s.ops = append(s.ops, Op{Kind: OpCommit})
	s.committed = len(s.ops)
	return nil
}

// Ops returns every recorded call in order.
func (s *Sheet) Ops() []Op { return s.ops }

// Writes counts the recorded calls that change cells (everything except
// Commit).
func (s *Sheet) Writes() int {
	n := 0
	for _, op := range s.ops {
		if op.Kind != OpCommit {
			n++
		}
	}
	return n
}

// Committed reports whether the last recorded call was a Commit.
func (s *Sheet) Committed() bool { return s.committed > 0 && s.committed == len(s.ops) }

// Cell returns the content at c.
func (s *Sheet) Cell(c Cell) (CellData, bool) {
	cd, ok := s.cells[c]
	if !ok {
		return CellData{}, false
	}
	return *cd, true
}

// Merges returns the merged ranges.
func (s *Sheet) Merges() []Range { return s.merges }

// ColumnWidth returns the width set on col, in points, or 0.
func (s *Sheet) ColumnWidth(col int) float64 { return s.widths[col] }

// Bounds returns the smallest range covering every non-empty cell.
func (s *Sheet) Bounds() (Range, bool) {
	if len(s.cells) == 0 {
		return Range{}, false
	}
	first := true
	var r Range
	for c := range s.cells {
		if first {
			r = Single(c)
			first = false
			continue
		}
		r.From.Row = min(r.From.Row, c.Row)
		r.From.Col = min(r.From.Col, c.Col)
		r.To.Row = max(r.To.Row, c.Row)
		r.To.Col = max(r.To.Col, c.Col)
	}
	return r, true
}

// Formulas returns every formula cell keyed by position.
func (s *Sheet) Formulas() map[Cell]string {
	out := make(map[Cell]string)
	for c, cd := range s.cells {
		if cd.Formula != "" {
			out[c] = cd.Formula
		}
	}
	return out
}

// SortedCells returns the occupied cells ordered by row then column.
func (s *Sheet) SortedCells() []Cell {
	out := make([]Cell, 0, len(s.cells))
	for c := range s.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// Value returns the numeric value of c, evaluating formulas. Empty and text
// cells count as zero, as they do inside SUM.
func (s *Sheet) Value(c Cell) (decimal.Decimal, error) {
	return s.value(c, make(map[Cell]bool))
}

func (s *Sheet) value(c Cell, visiting map[Cell]bool) (decimal.Decimal, error) {
	cd, ok := s.cells[c]
	if !ok {
		return decimal.Zero, nil
	}
	if cd.Formula != "" {
		if visiting[c] {
			return decimal.Zero, fmt.Errorf("circular reference at %s", c)
		}
		visiting[c] = true
		defer delete(visiting, c)
		return Evaluate(cd.Formula, func(ref Cell) (decimal.Decimal, error) {
			return s.value(ref, visiting)
		})
	}
	switch v := cd.Value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("%s holds non-finite %v", c, v)
		}
		return decimal.NewFromFloat(v), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Zero, nil
	}
}

// Display returns the text a spreadsheet would show in c.
func (s *Sheet) Display(c Cell) string {
	cd, ok := s.cells[c]
	if !ok {
		return ""
	}
	if cd.Formula == "" {
		if str, ok := cd.Value.(string); ok {
			return str
		}
		if cd.Value == nil {
			return ""
		}
	}
	v, err := s.Value(c)
	if err != nil {
		return "#ERR"
	}
	return FormatNumber(v, cd.Format.NumberFormat)
}

func blockRange(anchor Cell, rows, cols int) Range {
	return Range{From: anchor, To: anchor.Offset(max(rows, 1)-1, max(cols, 1)-1)}
}

func widest[T any](rows [][]T) int {
	n := 0
	for _, r := range rows {
		n = max(n, len(r))
	}
	return n
}
