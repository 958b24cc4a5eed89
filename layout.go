package statement

import (
	"fmt"
	"math"

	"github.com/aerissecure/statement/grid"
)

// headerRows is the size of the title block (company, statement, date).
const headerRows = 3

// DefaultOrigin is where the first section starts when Options leaves it
// unset; rows 1-3 hold the title block and row 4 stays blank.
var DefaultOrigin = grid.Cell{Row: 5, Col: 0}

// DefaultGap is the number of blank rows between sections.
const DefaultGap = 1

// Options controls allocation.
type Options struct {
	Origin grid.Cell // top-left of the first section; label column
	Gap    int       // blank rows between sections; 0 means DefaultGap, <0 means none
}

func (o Options) withDefaults() Options {
	if o.Origin == (grid.Cell{}) {
		o.Origin = DefaultOrigin
	}
	switch {
	case o.Gap == 0:
		o.Gap = DefaultGap
	case o.Gap < 0:
		o.Gap = 0
	}
	return o
}

// RowKind tells what an allocated row holds.
type RowKind int

const (
	RowGroup RowKind = iota + 1
	RowBanner
	RowItem
	RowNote
	RowSubtotal
	RowTotal
)

// PlannedRow is one allocated row.
type PlannedRow struct {
	Row     int
	Kind    RowKind
	Role    Role
	ID      string // element id; the section id on subtotal rows
	Label   string
	Section string // owning section, empty for end-of-statement totals
	Item    LineItem
	Rule    Rule
}

// SectionSpan records where a section landed. Zero rows mean "absent".
type SectionSpan struct {
	ID       string
	Group    int // group banner row
	Banner   int // title row
	First    int // first valued item row; notes are skipped
	Last     int // last valued item row
	Subtotal int
	Start    int // first row of the block
	End      int // last row of the block, attached totals included
}

// Plan is the resolved placement of every element of a Layout. It is built
// once per render and not modified afterwards.
type Plan struct {
	Layout    string
	Origin    grid.Cell
	LabelCol  int
	ValueCol  int
	HeaderRow int // first row of the title block
	Rows      []PlannedRow
	Sections  []SectionSpan
	Groups    []grid.Range
	End       int // last allocated row

	index    map[string]int // element id -> position in Rows
	sections map[string]int // section id -> position in Sections
}

// Row returns the row allocated to element id.
func (p *Plan) Row(id string) (int, bool) {
	i, ok := p.index[id]
	if !ok {
		return 0, false
	}
	return p.Rows[i].Row, true
}

// Section returns the span of section id.
func (p *Plan) Section(id string) (SectionSpan, bool) {
	i, ok := p.sections[id]
	if !ok {
		return SectionSpan{}, false
	}
	return p.Sections[i], true
}

// ValueCell returns the value-column cell of row.
func (p *Plan) ValueCell(row int) grid.Cell { return grid.Cell{Row: row, Col: p.ValueCol} }

// LabelCell returns the label-column cell of row.
func (p *Plan) LabelCell(row int) grid.Cell { return grid.Cell{Row: row, Col: p.LabelCol} }

// RowRange returns the label-to-value range of row.
func (p *Plan) RowRange(row int) grid.Range {
	return grid.Range{From: p.LabelCell(row), To: p.ValueCell(row)}
}

// Extent returns the range covering the title block and every allocated row.
func (p *Plan) Extent() grid.Range {
	return grid.Range{
		From: grid.Cell{Row: p.HeaderRow, Col: p.LabelCol},
		To:   grid.Cell{Row: max(p.End, p.HeaderRow+headerRows-1), Col: p.ValueCol},
	}
}

type allocator struct {
	layout   Layout
	plan     *Plan
	gap      int
	cursor   int
	last     int
	declared map[string]string // id -> what declared it
	group    int               // first row of the open group, 0 when none
}

// Allocate assigns a row to every group banner, section banner, line item,
// subtotal and total of l in one forward pass. Rules are checked against the
// rows allocated before them, so a rule can never refer forward.
func Allocate(l Layout, opts Options) (*Plan, error) {
	opts = opts.withDefaults()
	if opts.Origin.Row < headerRows+2 {
		return nil, &LayoutError{
			Context: l.Key,
			Reason:  fmt.Sprintf("origin %s leaves no room for the title block", opts.Origin),
		}
	}

	a := &allocator{
		layout: l,
		gap:    opts.Gap,
		cursor: opts.Origin.Row,
		plan: &Plan{
			Layout:    l.Key,
			Origin:    opts.Origin,
			LabelCol:  opts.Origin.Col,
			ValueCol:  opts.Origin.Col + 1,
			HeaderRow: opts.Origin.Row - headerRows - 1,
			index:     make(map[string]int),
			sections:  make(map[string]int),
		},
		declared: make(map[string]string),
	}

	known := make(map[string]bool, len(l.Sections))
	for _, s := range l.Sections {
		known[s.ID] = true
	}
	for _, t := range l.Totals {
		if t.After != "" && !known[t.After] {
			return nil, &ResolutionError{Reference: t.After, Context: "placement of total " + t.ID}
		}
	}

	for _, s := range l.Sections {
		if err := a.section(s); err != nil {
			return nil, err
		}
		for _, t := range l.Totals {
			if t.After == s.ID && !t.Detached {
				if err := a.total(t, s.ID); err != nil {
					return nil, err
				}
			}
		}
		span := &a.plan.Sections[a.plan.sections[s.ID]]
		span.End = a.last
		a.cursor += a.gap

		for _, t := range l.Totals {
			if t.After == s.ID && t.Detached {
				if err := a.total(t, s.ID); err != nil {
					return nil, err
				}
				a.cursor += a.gap
			}
		}
	}
	for _, t := range l.Totals {
		if t.After == "" {
			if err := a.total(t, ""); err != nil {
				return nil, err
			}
		}
	}
	a.closeGroup()
	a.plan.End = a.last
	return a.plan, nil
}

func (a *allocator) next() int {
	row := a.cursor
	a.cursor++
	a.last = row
	return row
}

func (a *allocator) declare(id, what string) error {
	if id == "" {
		return nil
	}
	if prev, ok := a.declared[id]; ok {
		return &LayoutError{Context: a.layout.Key, Reason: fmt.Sprintf("id %q declared by %s and %s", id, prev, what)}
	}
	a.declared[id] = what
	return nil
}

func (a *allocator) place(r PlannedRow) int {
	r.Row = a.next()
	a.plan.Rows = append(a.plan.Rows, r)
	if r.ID != "" {
		a.plan.index[r.ID] = len(a.plan.Rows) - 1
	}
	return r.Row
}

func (a *allocator) openGroup() {
	a.closeGroup()
	a.group = a.cursor
}

func (a *allocator) closeGroup() {
	if a.group == 0 || a.last < a.group {
		a.group = 0
		return
	}
	p := a.plan
	a.plan.Groups = append(a.plan.Groups, grid.Range{
		From: grid.Cell{Row: a.group, Col: p.LabelCol},
		To:   grid.Cell{Row: a.last, Col: p.ValueCol},
	})
	a.group = 0
}

func (a *allocator) section(s Section) error {
	if s.ID == "" {
		return &LayoutError{Context: a.layout.Key, Reason: fmt.Sprintf("section %q has no id", s.Title)}
	}
	if err := a.declare(s.ID, "section "+s.ID); err != nil {
		return err
	}

	if s.Group != "" || s.Banner == BannerFill {
		a.openGroup()
	}

	a.plan.Sections = append(a.plan.Sections, SectionSpan{ID: s.ID, Start: a.cursor})
	a.plan.sections[s.ID] = len(a.plan.Sections) - 1
	span := &a.plan.Sections[len(a.plan.Sections)-1]

	if s.Group != "" {
		span.Group = a.place(PlannedRow{Kind: RowGroup, Role: RoleSectionBanner, Label: s.Group, Section: s.ID})
	}
	switch s.Banner {
	case BannerFill:
		span.Banner = a.place(PlannedRow{Kind: RowBanner, Role: RoleSectionBanner, Label: s.Title, Section: s.ID})
	case BannerUnderline:
		span.Banner = a.place(PlannedRow{Kind: RowBanner, Role: RoleUnderline, Label: s.Title, Section: s.ID})
	}

	for _, it := range s.Items {
		if err := a.declare(it.ID, "item "+it.ID); err != nil {
			return err
		}
		kind, role := RowItem, RoleNone
		if it.Note {
			kind, role = RowNote, RoleNote
		}
		row := a.place(PlannedRow{Kind: kind, Role: role, ID: it.ID, Label: it.Label, Section: s.ID, Item: it})
		if it.Note {
			continue
		}
		if span.First == 0 {
			span.First = row
		}
		span.Last = row
	}

	if s.Subtotal != nil {
		if err := a.check(s.Subtotal.Rule, s.ID, "subtotal of "+s.ID); err != nil {
			return err
		}
		span.Subtotal = a.place(PlannedRow{
			Kind:    RowSubtotal,
			Role:    RoleSubtotalRow,
			ID:      s.ID,
			Label:   s.Subtotal.Label,
			Section: s.ID,
			Rule:    s.Subtotal.Rule,
		})
	}
	span.End = a.last
	return nil
}

func (a *allocator) total(t Total, section string) error {
	if t.ID == "" {
		return &LayoutError{Context: a.layout.Key, Reason: fmt.Sprintf("total %q has no id", t.Label)}
	}
	if err := a.declare(t.ID, "total "+t.ID); err != nil {
		return err
	}
	if err := a.check(t.Rule, section, "total "+t.ID); err != nil {
		return err
	}
	a.place(PlannedRow{Kind: RowTotal, Role: totalRole(t.Emphasis), ID: t.ID, Label: t.Label, Section: section, Rule: t.Rule})
	return nil
}

// check validates rule against the rows allocated so far.
func (a *allocator) check(rule Rule, own, ctx string) error {
	switch rule.Op {
	case OpSum:
		target := rule.Section
		if target == "" {
			target = own
		}
		if target == "" {
			return &LayoutError{Context: ctx, Reason: "sum without a section"}
		}
		span, ok := a.plan.Section(target)
		if !ok {
			return &ResolutionError{Reference: target, Context: ctx}
		}
		if span.First == 0 {
			return &LayoutError{Context: ctx, Reason: fmt.Sprintf("sum over section %q with no valued items", target)}
		}
	case OpLinear:
		if len(rule.Terms) == 0 {
			return &LayoutError{Context: ctx, Reason: "linear combination without terms"}
		}
		for _, term := range rule.Terms {
			if term.Sign != 1 && term.Sign != -1 {
				return &LayoutError{Context: ctx, Reason: fmt.Sprintf("term %q has sign %d", term.Ref, term.Sign)}
			}
			if err := a.resolvable(term.Ref, ctx); err != nil {
				return err
			}
		}
	case OpMultiply:
		if math.IsNaN(rule.Factor) || math.IsInf(rule.Factor, 0) {
			return &LayoutError{Context: ctx, Reason: fmt.Sprintf("factor %v is not finite", rule.Factor)}
		}
		return a.resolvable(rule.Ref, ctx)
	default:
		return &LayoutError{Context: ctx, Reason: fmt.Sprintf("unknown rule %d", rule.Op)}
	}
	return nil
}

func (a *allocator) resolvable(ref, ctx string) error {
	i, ok := a.plan.index[ref]
	if !ok {
		return &ResolutionError{Reference: ref, Context: ctx}
	}
	if a.plan.Rows[i].Kind == RowNote {
		return &LayoutError{Context: ctx, Reason: fmt.Sprintf("%q is a note and has no value", ref)}
	}
	return nil
}
