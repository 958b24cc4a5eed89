// Package excel renders statements through excelize.
package excel

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"

	"github.com/aerissecure/statement/grid"
)

// pointsPerChar converts point widths to excelize column widths.
const pointsPerChar = 5.25

// Sink is a grid.Sink writing into one sheet of an excelize file.
type Sink struct {
	f     *excelize.File
	sheet string
	w     io.Writer

	formats map[grid.Cell]grid.Format
	styles  map[grid.Format]int
}

var _ grid.Sink = (*Sink)(nil)

// NewSink returns a sink over a new file whose only sheet is called name.
// Commit writes the file to w when w is not nil.
func NewSink(w io.Writer, name string) (*Sink, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if name != "" && name != sheet {
		if err := f.SetSheetName(sheet, name); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
		sheet = name
	}
	return &Sink{
		f:       f,
		sheet:   sheet,
		w:       w,
		formats: make(map[grid.Cell]grid.Format),
		styles:  make(map[grid.Format]int),
	}, nil
}

// File returns the underlying excelize file.
func (s *Sink) File() *excelize.File { return s.f }

// Close releases the file.
func (s *Sink) Close() error { return s.f.Close() }

func (s *Sink) Clear(r grid.Range) error {
	merges, err := s.f.GetMergeCells(s.sheet)
	if err != nil {
		return err
	}
	for _, m := range merges {
		from, err := grid.ParseCell(m.GetStartAxis())
		if err != nil {
			return err
		}
		to, err := grid.ParseCell(m.GetEndAxis())
		if err != nil {
			return err
		}
		if r.Overlaps(grid.Span(from, to)) {
			if err := s.f.UnmergeCell(s.sheet, m.GetStartAxis(), m.GetEndAxis()); err != nil {
				return err
			}
		}
	}
	for _, c := range r.Cells() {
		ref := c.Ref()
		if err := s.f.SetCellFormula(s.sheet, ref, ""); err != nil {
			return err
		}
		if err := s.f.SetCellValue(s.sheet, ref, nil); err != nil {
			return err
		}
		delete(s.formats, c)
	}
	return s.f.SetCellStyle(s.sheet, r.From.Ref(), r.To.Ref(), 0)
}

func (s *Sink) WriteValues(anchor grid.Cell, values [][]any) error {
	for i, row := range values {
		for j, v := range row {
			if v == nil {
				continue
			}
			if err := s.f.SetCellValue(s.sheet, anchor.Offset(i, j).Ref(), v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sink) WriteFormulas(anchor grid.Cell, formulas [][]string) error {
	for i, row := range formulas {
		for j, formula := range row {
			if formula == "" {
				continue
			}
			if err := s.f.SetCellFormula(s.sheet, anchor.Offset(i, j).Ref(), strings.TrimPrefix(formula, "=")); err != nil {
				return err
			}
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
		if err := s.f.MergeCell(s.sheet, r.From.Ref(), r.To.Ref()); err != nil {
			return err
		}
	}
	if f.ColumnWidth > 0 {
		from, _ := excelize.ColumnNumberToName(r.From.Col + 1)
		to, _ := excelize.ColumnNumberToName(r.To.Col + 1)
		if err := s.f.SetColWidth(s.sheet, from, to, f.ColumnWidth/pointsPerChar); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) Commit() error {
	cells := make([]grid.Cell, 0, len(s.formats))
	for c := range s.formats {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	for _, c := range cells {
		f := s.formats[c]
		if f.IsZero() {
			continue
		}
		id, err := s.style(f)
		if err != nil {
			return err
		}
		if err := s.f.SetCellStyle(s.sheet, c.Ref(), c.Ref(), id); err != nil {
			return err
		}
	}
	if s.w == nil {
		return nil
	}
	return s.f.Write(s.w)
}

// Calc evaluates the cell at ref with excelize's formula engine and
// returns the unformatted result.
func (s *Sink) Calc(ref string) (string, error) {
	return s.f.CalcCellValue(s.sheet, ref, excelize.Options{RawCellValue: true})
}

func (s *Sink) style(f grid.Format) (int, error) {
	if id, ok := s.styles[f]; ok {
		return id, nil
	}
	style, err := toStyle(f)
	if err != nil {
		return 0, err
	}
	id, err := s.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("new style %s: %w", f, err)
	}
	s.styles[f] = id
	return id, nil
}

func toStyle(f grid.Format) (*excelize.Style, error) {
	parts := []*excelize.Style{{}}
	if f.Bold || f.Italic || f.Underline || f.FontSize > 0 || f.FontColor != "" {
		parts = append(parts, font(f))
	}
	if f.FillColor != "" {
		parts = append(parts, solidFill(f.FillColor))
	}
	edges := []struct {
		name string
		line grid.LineStyle
	}{
		{"top", f.Border.Top},
		{"bottom", f.Border.Bottom},
		{"left", f.Border.Left},
		{"right", f.Border.Right},
	}
	for _, e := range edges {
		if e.line != grid.LineNone {
			parts = append(parts, border(e.name, e.line))
		}
	}
	if f.NumberFormat != "" {
		parts = append(parts, numberFormat(f.NumberFormat))
	}
	if f.HAlign != "" {
		parts = append(parts, textAlignment(f.HAlign))
	}
	return mergeStyles(parts...)
}

func font(f grid.Format) *excelize.Style {
	ft := &excelize.Font{Bold: f.Bold, Italic: f.Italic, Size: f.FontSize}
	if f.Underline {
		ft.Underline = "single"
	}
	if f.FontColor != "" {
		ft.Color = "#" + f.FontColor
	}
	return &excelize.Style{Font: ft}
}

func solidFill(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#" + color},
			Pattern: 1,
		},
	}
}

func border(edge string, line grid.LineStyle) *excelize.Style {
	style := 1
	if line == grid.LineDouble {
		style = 6
	}
	return &excelize.Style{
		Border: []excelize.Border{{Type: edge, Color: "#000000", Style: style}},
	}
}

func numberFormat(code string) *excelize.Style {
	return &excelize.Style{CustomNumFmt: &code}
}

func textAlignment(a string) *excelize.Style {
	return &excelize.Style{Alignment: &excelize.Alignment{Horizontal: a}}
}

// mergeStyles folds the fragments into the first one. Border lists are
// concatenated so each fragment can contribute one edge.
func mergeStyles(ext ...*excelize.Style) (*excelize.Style, error) {
	if len(ext) == 0 {
		return nil, nil
	}
	for _, e := range ext[1:] {
		if err := mergo.Merge(ext[0], e, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
			return nil, fmt.Errorf("merge style: %w", err)
		}
	}
	return ext[0], nil
}
