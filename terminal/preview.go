// Package terminal previews rendered grids in a terminal.
package terminal

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aerissecure/statement/grid"
)

const (
	pointsPerChar = 7.0
	minColChars   = 8
	defaultChars  = 12
)

var (
	frameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	rowNumber  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(4).Align(lipgloss.Right)
)

// Options tweaks the preview.
type Options struct {
	RowNumbers bool
}

// Preview draws s as styled text: one line per row, cell formats mapped to
// terminal styles, and border edges drawn as rule lines between rows.
func Preview(s *grid.Sheet, opts Options) string {
	bounds, ok := s.Bounds()
	if !ok {
		return ""
	}
	widths := columnChars(s, bounds)

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

	var b strings.Builder
	for r := 1; r <= bounds.To.Row; r++ {
		top, bottom, left, right := rowEdges(s, bounds, r)
		if top != grid.LineNone {
			b.WriteString(rule(opts, widths, top) + "\n")
		}

		if opts.RowNumbers {
			b.WriteString(rowNumber.Render(strconv.Itoa(r)) + " ")
		}
		b.WriteString(edge(left))
		for i := 0; i < len(widths); i++ {
			at := grid.Cell{Row: r, Col: bounds.From.Col + i}
			if covered[at] {
				continue
			}
			w, span := widths[i], 1
			if m, ok := masters[at]; ok {
				for ; span < m.Cols() && i+span < len(widths); span++ {
					w += widths[i+span] + 1
				}
			}
			cd, _ := s.Cell(at)
			b.WriteString(cellStyle(cd.Format, w).Render(truncate(s.Display(at), w)))
			if i+span < len(widths) {
				b.WriteString(" ")
			}
		}
		b.WriteString(edge(right))
		b.WriteString("\n")

		if bottom != grid.LineNone {
			b.WriteString(rule(opts, widths, bottom) + "\n")
		}
	}
	return b.String()
}

func columnChars(s *grid.Sheet, bounds grid.Range) []int {
	var widths []int
	for c := bounds.From.Col; c <= bounds.To.Col; c++ {
		w := defaultChars
		if pt := s.ColumnWidth(c); pt > 0 {
			w = max(int(pt/pointsPerChar), minColChars)
		}
		widths = append(widths, w)
	}
	return widths
}

// rowEdges returns the strongest border found on each side of row r.
func rowEdges(s *grid.Sheet, bounds grid.Range, r int) (top, bottom, left, right grid.LineStyle) {
	for c := bounds.From.Col; c <= bounds.To.Col; c++ {
		cd, _ := s.Cell(grid.Cell{Row: r, Col: c})
		top = stronger(top, cd.Format.Border.Top)
		bottom = stronger(bottom, cd.Format.Border.Bottom)
		if c == bounds.From.Col {
			left = cd.Format.Border.Left
		}
		if c == bounds.To.Col {
			right = cd.Format.Border.Right
		}
	}
	return top, bottom, left, right
}

func stronger(a, b grid.LineStyle) grid.LineStyle {
	if a == grid.LineDouble || b == grid.LineNone {
		return a
	}
	return b
}

func rule(opts Options, widths []int, line grid.LineStyle) string {
	ch := "─"
	if line == grid.LineDouble {
		ch = "═"
	}
	n := len(widths) + 1
	for _, w := range widths {
		n += w
	}
	prefix := ""
	if opts.RowNumbers {
		prefix = strings.Repeat(" ", 5)
	}
	return prefix + frameStyle.Render(strings.Repeat(ch, n))
}

func edge(l grid.LineStyle) string {
	if l == grid.LineNone {
		return " "
	}
	return frameStyle.Render("│")
}

func cellStyle(f grid.Format, width int) lipgloss.Style {
	st := lipgloss.NewStyle().Width(width).MaxWidth(width)
	if f.Bold {
		st = st.Bold(true)
	}
	if f.Italic {
		st = st.Italic(true)
	}
	if f.Underline {
		st = st.Underline(true)
	}
	if f.FontColor != "" {
		st = st.Foreground(lipgloss.Color("#" + f.FontColor))
	}
	if f.FillColor != "" {
		st = st.Background(lipgloss.Color("#" + f.FillColor))
	}
	if f.HAlign == "right" {
		st = st.Align(lipgloss.Right)
	}
	return st
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 1 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}
