package xlsx

import (
	"archive/zip"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
	"github.com/unidoc/unioffice/zippkg"

	"github.com/aerissecure/statement/grid"
)

// Read loads the first worksheet of the workbook in r into a grid.Sheet:
// values, formulas, merges, column widths and the subset of cell styles a
// grid.Format can express.
func Read(r io.ReaderAt, size int64) (*grid.Sheet, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer wb.Close()

	strs, err := sharedStrings(wb, r, size)
	if err != nil {
		return nil, err
	}
	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("read workbook: no sheets")
	}
	sheet := sheets[0]
	out := grid.NewSheet(sheet.Name())

	maxCol := 0
	for _, row := range sheet.Rows() {
		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			col := int(reference.ColumnToIndex(colName))
			maxCol = max(maxCol, col)
			at := grid.Cell{Row: int(row.RowNumber()), Col: col}

			if err := readCell(out, at, cell, strs); err != nil {
				return nil, err
			}
			if cell.X().SAttr != nil {
				f := formatOf(wb, *cell.X().SAttr)
				if !f.IsZero() {
					if err := out.ApplyFormat(grid.Single(at), f); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	for c := 0; c <= maxCol; c++ {
		x := sheet.Column(uint32(c + 1)).X()
		if x.CustomWidthAttr != nil && *x.CustomWidthAttr && x.WidthAttr != nil {
			col := grid.Single(grid.Cell{Row: 1, Col: c})
			if err := out.ApplyFormat(col, grid.Format{ColumnWidth: *x.WidthAttr * PointsPerChar}); err != nil {
				return nil, err
			}
		}
	}

	if mc := sheet.X().MergeCells; mc != nil {
		for _, m := range mc.MergeCell {
			rng, err := parseRange(m.RefAttr)
			if err != nil {
				continue
			}
			if err := out.ApplyFormat(rng, grid.Format{Merge: true}); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func readCell(out *grid.Sheet, at grid.Cell, cell spreadsheet.Cell, strs []string) error {
	if f := cell.X().F; f != nil && f.Content != "" {
		return out.WriteFormulas(at, [][]string{{"=" + f.Content}})
	}
	if cell.IsEmpty() {
		return nil
	}
	if cell.IsNumber() {
		v, err := cell.GetValueAsNumber()
		if err != nil {
			return fmt.Errorf("read %s: %w", at, err)
		}
		return out.WriteValues(at, [][]any{{v}})
	}
	if x := cell.X(); x.TAttr == sml.ST_CellTypeS && strs != nil && x.V != nil {
		id, err := strconv.Atoi(*x.V)
		if err != nil || id < 0 || id >= len(strs) {
			return fmt.Errorf("read %s: bad shared string index %q", at, *x.V)
		}
		return out.WriteValues(at, [][]any{{strs[id]}})
	}
	return out.WriteValues(at, [][]any{{cell.GetString()}})
}

// sharedStringsPart is where the shared string table lives in a package.
const sharedStringsPart = "xl/sharedStrings.xml"

// sharedStrings returns the shared string table when unioffice left it
// unloaded, or nil when the workbook's own table applies. excelize points
// at the table with an absolute part name that unioffice does not follow,
// so the part ends up among the workbook's extra files.
func sharedStrings(wb *spreadsheet.Workbook, r io.ReaderAt, size int64) ([]string, error) {
	if len(wb.SharedStrings.X().Si) > 0 {
		return nil, nil
	}
	unread := false
	for _, ef := range wb.ExtraFiles {
		if ef.ZipPath == sharedStringsPart {
			unread = true
		}
	}
	if !unread {
		return nil, nil
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != sharedStringsPart {
			continue
		}
		sst := sml.NewSst()
		if err := zippkg.Decode(f, sst); err != nil {
			return nil, fmt.Errorf("read shared strings: %w", err)
		}
		strs := make([]string, 0, len(sst.Si))
		for _, si := range sst.Si {
			strs = append(strs, richText(si))
		}
		return strs, nil
	}
	return nil, nil
}

func richText(si *sml.CT_Rst) string {
	if si.T != nil {
		return *si.T
	}
	var b strings.Builder
	for _, run := range si.R {
		b.WriteString(run.T)
	}
	return b.String()
}

// formatOf translates the cell style styleID back into a grid.Format.
func formatOf(wb *spreadsheet.Workbook, styleID uint32) grid.Format {
	ss := wb.StyleSheet
	if int(styleID) >= len(ss.X().CellXfs.Xf) {
		return grid.Format{}
	}
	xf := ss.X().CellXfs.Xf[styleID]
	var f grid.Format

	if font := fontOf(ss, xf); font != nil {
		f.Bold = len(font.B) > 0 && isTrue(font.B[0])
		f.Italic = len(font.I) > 0 && isTrue(font.I[0])
		f.Underline = len(font.U) > 0 && font.U[0].ValAttr != sml.ST_UnderlineValuesNone
		if len(font.Sz) > 0 {
			f.FontSize = font.Sz[0].ValAttr
		}
		if len(font.Color) > 0 && font.Color[0].RgbAttr != nil {
			f.FontColor = normalizeColor(*font.Color[0].RgbAttr)
		}
	}

	if fill := fillOf(ss, xf); fill != nil && fill.PatternFill != nil && fill.PatternFill.FgColor != nil {
		fg := fill.PatternFill.FgColor
		if fg.RgbAttr != nil {
			f.FillColor = normalizeColor(*fg.RgbAttr)
		} else if fg.ThemeAttr != nil {
			if hex, ok := themeColor(wb, int(*fg.ThemeAttr)); ok {
				f.FillColor = hex
			}
		}
	}

	if b := borderOf(ss, xf); b != nil {
		f.Border = grid.Border{
			Top:    lineStyle(b.Top),
			Bottom: lineStyle(b.Bottom),
			Left:   lineStyle(b.Left),
			Right:  lineStyle(b.Right),
		}
	}

	if xf.NumFmtIdAttr != nil && ss.X().NumFmts != nil {
		for _, nf := range ss.X().NumFmts.NumFmt {
			if nf.NumFmtIdAttr == *xf.NumFmtIdAttr {
				f.NumberFormat = nf.FormatCodeAttr
			}
		}
	}

	if xf.Alignment != nil {
		switch xf.Alignment.HorizontalAttr {
		case sml.ST_HorizontalAlignmentRight:
			f.HAlign = "right"
		case sml.ST_HorizontalAlignmentCenter:
			f.HAlign = "center"
		case sml.ST_HorizontalAlignmentLeft:
			f.HAlign = "left"
		}
	}
	return f
}

func isTrue(p *sml.CT_BooleanProperty) bool {
	return p != nil && (p.ValAttr == nil || *p.ValAttr)
}

func lineStyle(pr *sml.CT_BorderPr) grid.LineStyle {
	if pr == nil {
		return grid.LineNone
	}
	switch pr.StyleAttr {
	case sml.ST_BorderStyleDouble:
		return grid.LineDouble
	case sml.ST_BorderStyleUnset, sml.ST_BorderStyleNone:
		return grid.LineNone
	}
	return grid.LineThin
}

func fontOf(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Font {
	if xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	idx := int(*xf.FontIdAttr)
	if idx >= len(ss.X().Fonts.Font) {
		return nil
	}
	return ss.X().Fonts.Font[idx]
}

func fillOf(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Fill {
	if xf.FillIdAttr == nil || ss.X().Fills == nil {
		return nil
	}
	idx := int(*xf.FillIdAttr)
	if idx >= len(ss.X().Fills.Fill) {
		return nil
	}
	return ss.X().Fills.Fill[idx]
}

func borderOf(ss spreadsheet.StyleSheet, xf *sml.CT_Xf) *sml.CT_Border {
	if xf.BorderIdAttr == nil || ss.X().Borders == nil {
		return nil
	}
	idx := int(*xf.BorderIdAttr)
	if idx >= len(ss.X().Borders.Border) {
		return nil
	}
	return ss.X().Borders.Border[idx]
}

// themeColor resolves a theme color index to "RRGGBB", ignoring tint.
func themeColor(wb *spreadsheet.Workbook, idx int) (string, bool) {
	themes := wb.Themes()
	if len(themes) == 0 || themes[0] == nil {
		return "", false
	}
	cs := themes[0].ThemeElements.ClrScheme
	clr := []*dml.CT_Color{
		cs.Dk1, cs.Lt1, cs.Dk2, cs.Lt2,
		cs.Accent1, cs.Accent2, cs.Accent3, cs.Accent4, cs.Accent5, cs.Accent6,
		cs.Hlink, cs.FolHlink,
	}
	if idx < 0 || idx >= len(clr) || clr[idx] == nil {
		return "", false
	}
	c := clr[idx]
	switch {
	case c.SrgbClr != nil && c.SrgbClr.ValAttr != "":
		return c.SrgbClr.ValAttr, true
	case c.SysClr != nil && c.SysClr.LastClrAttr != nil:
		return *c.SysClr.LastClrAttr, true
	}
	return "", false
}

// normalizeColor turns an "AARRGGBB" color into "RRGGBB".
func normalizeColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		return strings.ToUpper(hex[2:])
	}
	return strings.ToUpper(hex)
}
