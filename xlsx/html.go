package xlsx

import (
	"fmt"
	"html"
	"strings"

	"github.com/aerissecure/statement/grid"
)

// HTML renders s as a standalone HTML table.
func HTML(s *grid.Sheet) string {
	return RenderTableHTML(BuildTable(s))
}

// RenderTableHTML converts the table into an HTML fragment. Each distinct
// cell format becomes one CSS class.
func RenderTableHTML(t Table) string {
	var builder strings.Builder

	styleMap := make(map[grid.Format]string)
	var styleList []grid.Format
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			if cell == nil {
				continue
			}
			if _, ok := styleMap[cell.Format]; !ok {
				styleMap[cell.Format] = fmt.Sprintf("cellstyle%d", len(styleList)+1)
				styleList = append(styleList, cell.Format)
			}
		}
	}

	builder.WriteString("<style>\n")
	builder.WriteString(".table { border-collapse: collapse; table-layout: fixed; margin-bottom: 2em; }\n")
	builder.WriteString(".table td { padding: 4px 8px; font-family:'Calibri'; font-size:11pt; white-space:nowrap; overflow:hidden; vertical-align:bottom; }\n")
	for i, f := range styleList {
		if css := formatToCSS(f); css != "" {
			builder.WriteString(fmt.Sprintf(".cellstyle%d { %s }\n", i+1, css))
		}
	}
	builder.WriteString("</style>\n")

	totalPx := 0.0
	for _, w := range t.ColWidths {
		totalPx += w
	}
	builder.WriteString(fmt.Sprintf("<div class=\"sheet\" data-name=\"%s\">\n", html.EscapeString(t.Name)))
	builder.WriteString(fmt.Sprintf("<table class=\"table\" style=\"width:%.0fpx;\">\n", totalPx))
	builder.WriteString("  <colgroup>\n")
	for _, w := range t.ColWidths {
		builder.WriteString(fmt.Sprintf("    <col style=\"width:%.0fpx;\">\n", w))
	}
	builder.WriteString("  </colgroup>\n")

	for _, row := range t.Rows {
		builder.WriteString(fmt.Sprintf("  <tr data-row=\"%d\">\n", row.Number))
		for i, cell := range row.Cells {
			if row.Covered[i] {
				continue
			}
			if cell == nil {
				builder.WriteString("    <td></td>\n")
				continue
			}
			spanAttr := ""
			if cell.ColSpan > 1 {
				spanAttr += fmt.Sprintf(" colspan=\"%d\"", cell.ColSpan)
			}
			if cell.RowSpan > 1 {
				spanAttr += fmt.Sprintf(" rowspan=\"%d\"", cell.RowSpan)
			}
			// Leading spaces carry indentation.
			escaped := strings.ReplaceAll(html.EscapeString(cell.Value), "  ", "&nbsp;&nbsp;")
			builder.WriteString(fmt.Sprintf("    <td data-cell=\"%s\"%s class=\"%s\">%s</td>\n",
				cell.Ref, spanAttr, styleMap[cell.Format], escaped))
		}
		builder.WriteString("  </tr>\n")
	}
	builder.WriteString("</table>\n</div>\n")
	return builder.String()
}

// formatToCSS converts a format to CSS declarations.
func formatToCSS(f grid.Format) string {
	var b strings.Builder
	if f.Bold {
		b.WriteString("font-weight:bold;")
	}
	if f.Italic {
		b.WriteString("font-style:italic;")
	}
	if f.Underline {
		b.WriteString("text-decoration:underline;")
	}
	if f.FontSize > 0 {
		b.WriteString(fmt.Sprintf("font-size:%.1fpt;", f.FontSize))
	}
	if f.FontColor != "" {
		b.WriteString(fmt.Sprintf("color:#%s;", f.FontColor))
	}
	if f.FillColor != "" {
		b.WriteString(fmt.Sprintf("background-color:#%s;", f.FillColor))
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
		switch e.line {
		case grid.LineThin:
			b.WriteString(fmt.Sprintf("border-%s:1px solid #000;", e.name))
		case grid.LineDouble:
			b.WriteString(fmt.Sprintf("border-%s:3px double #000;", e.name))
		}
	}
	switch f.HAlign {
	case "center":
		b.WriteString("text-align:center;")
	case "right":
		b.WriteString("text-align:right;")
	case "left":
		b.WriteString("text-align:left;")
	}
	return b.String()
}
