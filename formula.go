package statement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aerissecure/statement/grid"
)

// BuildFormulas renders the rule of every subtotal and total row of p as a
// spreadsheet formula in the value column, keyed by row. Formulas start with
// "=" and only address rows already present in p.
func BuildFormulas(p *Plan, l Layout) (map[int]string, error) {
	out := make(map[int]string)
	for _, r := range p.Rows {
		if r.Kind != RowSubtotal && r.Kind != RowTotal {
			continue
		}
		ctx := fmt.Sprintf("%s row %d", l.Key, r.Row)
		if r.ID != "" {
			ctx = fmt.Sprintf("%s %s", l.Key, r.ID)
		}
		f, err := formula(p, r, ctx)
		if err != nil {
			return nil, err
		}
		out[r.Row] = f
	}
	return out, nil
}

func formula(p *Plan, r PlannedRow, ctx string) (string, error) {
	rule := r.Rule
	switch rule.Op {
	case OpSum:
		section := rule.Section
		if section == "" {
			section = r.Section
		}
		span, ok := p.Section(section)
		if !ok || span.First == 0 {
			return "", &ResolutionError{Reference: section, Context: ctx}
		}
		if span.First >= r.Row {
			return "", &ResolutionError{Reference: section, Context: ctx}
		}
		rng := grid.Range{From: p.ValueCell(span.First), To: p.ValueCell(span.Last)}
		return "=SUM(" + rng.Ref() + ")", nil

	case OpLinear:
		var b strings.Builder
		b.WriteByte('=')
		for i, t := range rule.Terms {
			ref, err := cellFor(p, t.Ref, r.Row, ctx)
			if err != nil {
				return "", err
			}
			switch {
			case t.Sign < 0:
				b.WriteByte('-')
			case i > 0:
				b.WriteByte('+')
			}
			b.WriteString(ref)
		}
		return b.String(), nil

	case OpMultiply:
		ref, err := cellFor(p, rule.Ref, r.Row, ctx)
		if err != nil {
			return "", err
		}
		return "=" + ref + "*" + decimal.NewFromFloat(rule.Factor).String(), nil
	}
	return "", &LayoutError{Context: ctx, Reason: fmt.Sprintf("unknown rule %d", rule.Op)}
}

// cellFor resolves id to its value cell, refusing anything at or after row.
func cellFor(p *Plan, id string, row int, ctx string) (string, error) {
	target, ok := p.Row(id)
	if !ok || target >= row {
		return "", &ResolutionError{Reference: id, Context: ctx}
	}
	return p.ValueCell(target).Ref(), nil
}
