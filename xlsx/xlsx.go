// Package xlsx writes rendered statements into unioffice workbooks, reads
// them back, and previews grids as HTML tables.
package xlsx

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/aerissecure/statement/grid"
)

// PointsPerChar converts column widths between points and Excel's
// character-based width unit.
const PointsPerChar = 5.25

// Sink is a grid.Sink backed by one worksheet of a unioffice workbook.
// Values, formulas and merges go straight into the worksheet; formats are
// collected per cell and turned into deduplicated cell styles on Commit,
// which then saves the workbook to the writer, if any.
type Sink struct {
	wb    *spreadsheet.Workbook
	sheet spreadsheet.Sheet
	w     io.Writer

	formats map[grid.Cell]grid.Format
	styles  map[grid.Format]spreadsheet.CellStyle
}

var _ grid.Sink = (*Sink)(nil)

// NewSink returns a sink writing to a new workbook with a single sheet
// called name. Commit saves the workbook to w; w may be nil.
func NewSink(w io.Writer, name string) *Sink {
	wb := spreadsheet.New()
	sheet := wb.AddSheet()
	if name != "" {
		sheet.SetName(name)
	}
	return &Sink{
		wb:      wb,
		sheet:   sheet,
		w:       w,
		formats: make(map[grid.Cell]grid.Format),
		styles:  make(map[grid.Format]spreadsheet.CellStyle),
	}
}

// Workbook returns the underlying workbook.
func (s *Sink) Workbook() *spreadsheet.Workbook { return s.wb }

func (s *Sink) Clear(r grid.Range) error {
	sd := s.sheet.X().SheetData
	if sd != nil {
		for _, row := range sd.Row {
			kept := row.C[:0]
			for _, c := range row.C {
				if c.RAttr != nil {
					if at, err := grid.ParseCell(*c.RAttr); err == nil && r.Contains(at) {
						continue
					}
				}
				kept = append(kept, c)
			}
			row.C = kept
		}
	}
	if mc := s.sheet.X().MergeCells; mc != nil {
		kept := mc.MergeCell[:0]
		for _, m := range mc.MergeCell {
			if mr, err := parseRange(m.RefAttr); err == nil && r.Overlaps(mr) {
				continue
			}
			kept = append(kept, m)
		}
		mc.MergeCell = kept
		mc.CountAttr = unioffice.Uint32(uint32(len(kept)))
	}
	for c := range s.formats {
		if r.Contains(c) {
			delete(s.formats, c)
		}
	}
	return nil
}

func (s *Sink) WriteValues(anchor grid.Cell, values [][]any) error {
	for i, row := range values {
		for j, v := range row {
			if v == nil {
				continue
			}
			cell := s.sheet.Cell(anchor.Offset(i, j).Ref())
			switch n := v.(type) {
			case string:
				cell.SetString(n)
			case float64:
				cell.SetNumber(n)
			case int:
				cell.SetNumber(float64(n))
			case bool:
				cell.SetBool(n)
			default:
				return fmt.Errorf("write %s: unsupported value %T", anchor.Offset(i, j), v)
			}
		}
	}
	return nil
}

func (s *Sink) WriteFormulas(anchor grid.Cell, formulas [][]string) error {
	for i, row := range formulas {
		for j, f := range row {
			if f == "" {
				continue
			}
			s.sheet.Cell(anchor.Offset(i, j).Ref()).SetFormulaRaw(strings.TrimPrefix(f, "="))
		}
	}
	return nil
}

func (s *Sink) ApplyFormat(r grid.Range, f grid.Format) error {
	for _, c := range r.Cells() {
		merged, err := s.formats[c].Overlay(f.At(r, c))
		if err != nil {
			return err
		}
		s.formats[c] = merged
	}
	if f.Merge && (r.Rows() > 1 || r.Cols() > 1) {
		s.sheet.AddMergedCells(r.From.Ref(), r.To.Ref())
	}
	if f.ColumnWidth > 0 {
		for col := r.From.Col; col <= r.To.Col; col++ {
			x := s.sheet.Column(uint32(col + 1)).X()
			x.WidthAttr = unioffice.Float64(f.ColumnWidth / PointsPerChar)
			x.CustomWidthAttr = unioffice.Bool(true)
		}
	}
	return nil
}

func (s *Sink) Commit() error {
	for _, c := range sortedCells(s.formats) {
		f := s.formats[c]
		if f.IsZero() {
			continue
		}
		s.sheet.Cell(c.Ref()).SetStyle(s.style(f))
	}
	if s.w == nil {
		return nil
	}
	if err := s.wb.Save(s.w); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// style returns the workbook cell style for f, creating it on first use.
func (s *Sink) style(f grid.Format) spreadsheet.CellStyle {
	if cs, ok := s.styles[f]; ok {
		return cs
	}
	ss := s.wb.StyleSheet
	cs := ss.AddCellStyle()

	if f.Bold || f.Italic || f.Underline || f.FontSize > 0 || f.FontColor != "" {
		font := ss.AddFont()
		if f.Bold {
			font.SetBold(true)
		}
		if f.Italic {
			font.SetItalic(true)
		}
		if f.Underline {
			font.X().U = []*sml.CT_UnderlineProperty{{ValAttr: sml.ST_UnderlineValuesSingle}}
		}
		if f.FontSize > 0 {
			font.SetSize(f.FontSize)
		}
		if f.FontColor != "" {
			font.SetColor(color.FromHex(f.FontColor))
		}
		cs.SetFont(font)
	}

	if f.FillColor != "" {
		fill := ss.Fills().AddFill()
		pf := fill.SetPatternFill()
		pf.SetPattern(sml.ST_PatternTypeSolid)
		pf.SetFgColor(color.FromHex(f.FillColor))
		cs.SetFill(fill)
	}

	if f.Border != (grid.Border{}) {
		b := ss.AddBorder()
		if st, ok := borderStyle(f.Border.Top); ok {
			b.SetTop(st, color.Black)
		}
		if st, ok := borderStyle(f.Border.Bottom); ok {
			b.SetBottom(st, color.Black)
		}
		if st, ok := borderStyle(f.Border.Left); ok {
			b.SetLeft(st, color.Black)
		}
		if st, ok := borderStyle(f.Border.Right); ok {
			b.SetRight(st, color.Black)
		}
		cs.SetBorder(b)
	}

	if f.NumberFormat != "" {
		cs.SetNumberFormat(f.NumberFormat)
	}
	switch f.HAlign {
	case "right":
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentRight)
	case "center":
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentCenter)
	case "left":
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentLeft)
	}

	s.styles[f] = cs
	return cs
}

// StyleCount returns the number of distinct cell styles created so far.
func (s *Sink) StyleCount() int { return len(s.styles) }

func borderStyle(l grid.LineStyle) (sml.ST_BorderStyle, bool) {
	switch l {
	case grid.LineThin:
		return sml.ST_BorderStyleThin, true
	case grid.LineDouble:
		return sml.ST_BorderStyleDouble, true
	}
	return sml.ST_BorderStyleNone, false
}

// parseRange parses a merge reference such as "A5:B5".
func parseRange(ref string) (grid.Range, error) {
	from, to, err := reference.ParseRangeReference(ref)
	if err != nil {
		return grid.Range{}, err
	}
	return grid.Span(
		grid.Cell{Row: int(from.RowIdx), Col: int(from.ColumnIdx)},
		grid.Cell{Row: int(to.RowIdx), Col: int(to.ColumnIdx)},
	), nil
}

func sortedCells(m map[grid.Cell]grid.Format) []grid.Cell {
	out := make([]grid.Cell, 0, len(m))
	for c := range m {
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
