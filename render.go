package statement

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aerissecure/statement/grid"
)

// indentUnit is prepended to a label once per indent level.
const indentUnit = "  "

// Renderer writes statements into grid sinks. The zero value renders at A5
// with a one-row gap.
type Renderer struct {
	Options Options
}

// Render validates in against l, lays l out and writes the result into sink,
// committing it at the end. Nothing is written when validation, allocation
// or formula building fails. A failing sink aborts the render with a
// *SinkError and the sink is left as it is.
func (r Renderer) Render(ctx context.Context, sink grid.Sink, l Layout, in Input) error {
	start := time.Now()
	log := zerolog.Ctx(ctx).With().
		Str("render_id", uuid.NewString()).
		Str("layout", l.Key).
		Logger()

	missing, invalid := in.Missing(l), in.Invalid()
	if len(missing) > 0 || len(invalid) > 0 {
		log.Warn().Strs("missing", missing).Strs("invalid", invalid).Msg("input unusable")
		return &InputError{Layout: l.Key, Keys: missing, Invalid: invalid}
	}

	plan, err := Allocate(l, r.Options)
	if err != nil {
		return err
	}
	formulas, err := BuildFormulas(plan, l)
	if err != nil {
		return err
	}

	w := &planWriter{sink: sink, plan: plan, layout: l}
	w.clear()
	w.title(in)
	w.body(in)
	w.formulas(formulas)
	w.formats()
	w.commit()
	if w.err != nil {
		log.Error().Err(w.err).Msg("render failed")
		return w.err
	}

	log.Info().
		Int("rows", len(plan.Rows)).
		Int("formulas", len(formulas)).
		Str("extent", plan.Extent().Ref()).
		Dur("duration", time.Since(start)).
		Msg("statement rendered")
	return nil
}

// planWriter turns a Plan into sink calls and keeps the first sink error.
type planWriter struct {
	sink   grid.Sink
	plan   *Plan
	layout Layout
	err    error
}

func (w *planWriter) do(op string, fn func() error) {
	if w.err != nil {
		return
	}
	if err := fn(); err != nil {
		w.err = &SinkError{Op: op, Err: err}
	}
}

func (w *planWriter) format(r grid.Range, role Role) {
	w.do("format", func() error { return w.sink.ApplyFormat(r, Style(role)) })
}

func (w *planWriter) clear() {
	w.do("clear", func() error { return w.sink.Clear(w.plan.Extent()) })
}

func (w *planWriter) title(in Input) {
	values := [][]any{
		{in.Company},
		{w.layout.Name},
		{DateLine(w.layout.Period, in.Date)},
	}
	w.do("write values", func() error {
		return w.sink.WriteValues(w.plan.LabelCell(w.plan.HeaderRow), values)
	})
}

func (w *planWriter) body(in Input) {
	p := w.plan
	first := p.Origin.Row
	if p.End < first {
		return
	}
	values := make([][]any, p.End-first+1)
	for i := range values {
		values[i] = []any{nil, nil}
	}
	for _, row := range p.Rows {
		label := row.Label
		if row.Kind == RowItem || row.Kind == RowNote {
			label = strings.Repeat(indentUnit, row.Item.Indent) + label
		}
		values[row.Row-first][0] = label
		if row.Kind == RowItem {
			values[row.Row-first][1] = in.resolve(row.Item)
		}
	}
	w.do("write values", func() error { return w.sink.WriteValues(p.LabelCell(first), values) })
}

func (w *planWriter) formulas(formulas map[int]string) {
	for _, row := range w.plan.Rows {
		f, ok := formulas[row.Row]
		if !ok {
			continue
		}
		w.do("write formulas", func() error {
			return w.sink.WriteFormulas(w.plan.ValueCell(row.Row), [][]string{{f}})
		})
	}
}

func (w *planWriter) formats() {
	p := w.plan
	ext := p.Extent()

	label, value := Style(RoleLabelColumn), Style(RoleValueColumn)
	if w.layout.Widths.Label > 0 {
		label.ColumnWidth = w.layout.Widths.Label
	}
	if w.layout.Widths.Value > 0 {
		value.ColumnWidth = w.layout.Widths.Value
	}
	w.do("format", func() error {
		return w.sink.ApplyFormat(grid.Range{From: ext.From, To: grid.Cell{Row: ext.To.Row, Col: p.LabelCol}}, label)
	})
	w.do("format", func() error {
		return w.sink.ApplyFormat(grid.Range{From: grid.Cell{Row: ext.From.Row, Col: p.ValueCol}, To: ext.To}, value)
	})

	w.format(grid.Single(p.LabelCell(p.HeaderRow)), RoleTitleHeader)
	w.format(grid.Single(p.LabelCell(p.HeaderRow+1)), RoleSubHeader)
	w.format(grid.Single(p.LabelCell(p.HeaderRow+2)), RoleDateLine)

	for _, row := range p.Rows {
		switch row.Kind {
		case RowGroup:
			w.format(p.RowRange(row.Row), RoleSectionBanner)
		case RowBanner:
			if row.Role == RoleSectionBanner {
				w.format(p.RowRange(row.Row), row.Role)
			} else {
				w.format(grid.Single(p.LabelCell(row.Row)), row.Role)
			}
		case RowNote:
			w.format(grid.Single(p.LabelCell(row.Row)), RoleNote)
		case RowSubtotal, RowTotal:
			w.format(p.RowRange(row.Row), row.Role)
		}
	}

	for _, r := range w.currencyRanges() {
		w.format(r, RoleCurrencyCell)
	}

	if w.layout.Framed {
		for _, g := range p.Groups {
			w.format(g, RoleGroupFrame)
		}
	}
}

// currencyRanges returns the value-column runs holding numbers: each
// section's items through its attached totals, and every other total on
// its own.
func (w *planWriter) currencyRanges() []grid.Range {
	p := w.plan
	var out []grid.Range
	covered := make(map[int]bool)
	for _, s := range p.Sections {
		from := s.First
		if from == 0 {
			from = s.Subtotal
		}
		if from == 0 {
			continue
		}
		out = append(out, grid.Range{From: p.ValueCell(from), To: p.ValueCell(s.End)})
		for row := from; row <= s.End; row++ {
			covered[row] = true
		}
	}
	for _, row := range p.Rows {
		if row.Kind == RowTotal && !covered[row.Row] {
			out = append(out, grid.Single(p.ValueCell(row.Row)))
		}
	}
	return out
}

func (w *planWriter) commit() {
	w.do("commit", w.sink.Commit)
}
