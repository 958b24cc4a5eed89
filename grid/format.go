package grid

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
)

// LineStyle is a border line style. The empty style means no border.
type LineStyle string

const (
	LineNone   LineStyle = ""
	LineThin   LineStyle = "thin"
	LineDouble LineStyle = "double"
)

// Border holds the line style of each outer edge of a formatted range.
type Border struct {
	Top    LineStyle
	Bottom LineStyle
	Left   LineStyle
	Right  LineStyle
}

// Format is a formatting directive applied to a range. Zero fields mean
// "leave unchanged", which is what lets directives stack on one cell.
// Format is comparable so sinks can deduplicate styles with a map.
type Format struct {
	Bold         bool
	Italic       bool
	Underline    bool
	FontSize     float64 // points
	FontColor    string  // "RRGGBB"
	FillColor    string  // "RRGGBB"
	Border       Border  // edges of the whole range, not of each cell
	Merge        bool    // merge the range into one cell
	NumberFormat string  // e.g. "$#,##0"
	ColumnWidth  float64 // points, applied to every column of the range
	HAlign       string  // left|center|right
}

// IsZero reports whether f changes nothing.
func (f Format) IsZero() bool { return f == Format{} }

// Overlay layers o on top of f: set fields of o win, unset fields keep f.
func (f Format) Overlay(o Format) (Format, error) {
	out := f
	if err := mergo.Merge(&out, o, mergo.WithOverride); err != nil {
		return f, fmt.Errorf("overlay %s: %w", o, err)
	}
	return out, nil
}

// At returns the part of f that lands on cell c when f is applied to r:
// range edges only reach the cells on that edge, and range-level settings
// (merge, column width) are dropped.
func (f Format) At(r Range, c Cell) Format {
	out := f
	out.Merge = false
	out.ColumnWidth = 0
	if c.Row != r.From.Row {
		out.Border.Top = LineNone
	}
	if c.Row != r.To.Row {
		out.Border.Bottom = LineNone
	}
	if c.Col != r.From.Col {
		out.Border.Left = LineNone
	}
	if c.Col != r.To.Col {
		out.Border.Right = LineNone
	}
	return out
}

func (f Format) String() string {
	var parts []string
	if f.Bold {
		parts = append(parts, "bold")
	}
	if f.Italic {
		parts = append(parts, "italic")
	}
	if f.Underline {
		parts = append(parts, "underline")
	}
	if f.FontSize > 0 {
		parts = append(parts, fmt.Sprintf("size=%g", f.FontSize))
	}
	if f.FontColor != "" {
		parts = append(parts, "color=#"+f.FontColor)
	}
	if f.FillColor != "" {
		parts = append(parts, "fill=#"+f.FillColor)
	}
	if f.Border != (Border{}) {
		parts = append(parts, fmt.Sprintf("border=%s/%s/%s/%s", f.Border.Top, f.Border.Bottom, f.Border.Left, f.Border.Right))
	}
	if f.Merge {
		parts = append(parts, "merge")
	}
	if f.NumberFormat != "" {
		parts = append(parts, "numfmt="+f.NumberFormat)
	}
	if f.ColumnWidth > 0 {
		parts = append(parts, fmt.Sprintf("width=%g", f.ColumnWidth))
	}
	if f.HAlign != "" {
		parts = append(parts, "align="+f.HAlign)
	}
	return strings.Join(parts, " ")
}
