// Package statement lays out standardized financial statements on a grid.
//
// A statement is declared as a Layout value: ordered sections of line items,
// subtotal rules and totals that refer to other rows by identifier. Allocate
// turns a Layout into a Plan of concrete rows, BuildFormulas turns the Plan's
// rules into spreadsheet formulas, Style maps each row role to a format
// directive, and Renderer writes the result into a grid.Sink.
package statement

// BannerStyle selects how a section's title row is drawn.
type BannerStyle int

const (
	// BannerNone emits no title row.
	BannerNone BannerStyle = iota
	// BannerFill is a filled banner merged across the label and value columns.
	BannerFill
	// BannerUnderline is a bold underlined heading in the label column.
	BannerUnderline
)

// Period selects the wording of the date line under the statement name.
type Period int

const (
	// AsOf reads "As of December 31, 2024" (balance sheet).
	AsOf Period = iota
	// YearEnded reads "For the Year Ended December 31, 2024".
	YearEnded
)

// ValueRef is where a line item's number comes from: an input figure, a
// literal, or an input figure that falls back to a literal.
type ValueRef struct {
	Key        string
	Literal    float64
	HasLiteral bool
}

// Key refers to a required input figure.
func Key(key string) ValueRef { return ValueRef{Key: key} }

// Literal is a fixed number.
func Literal(v float64) ValueRef { return ValueRef{Literal: v, HasLiteral: true} }

// KeyOr refers to an input figure, using def when the input lacks it.
func KeyOr(key string, def float64) ValueRef {
	return ValueRef{Key: key, Literal: def, HasLiteral: true}
}

// Required reports whether the input must provide r.Key.
func (r ValueRef) Required() bool { return r.Key != "" && !r.HasLiteral }

// LineItem is one printable row.
type LineItem struct {
	ID     string
	Label  string
	Value  ValueRef
	Indent int  // 0 or 1
	Negate bool // write the figure with its sign flipped
	Note   bool // label only, no value cell
}

// Item declares a valued line item.
func Item(id, label string, v ValueRef) LineItem {
	return LineItem{ID: id, Label: label, Value: v}
}

// Note declares a label-only row.
func Note(label string) LineItem { return LineItem{Label: label, Note: true} }

// Op is the kind of computation a Rule performs.
type Op int

const (
	OpSum Op = iota + 1
	OpLinear
	OpMultiply
)

func (o Op) String() string {
	switch o {
	case OpSum:
		return "sum"
	case OpLinear:
		return "linear"
	case OpMultiply:
		return "multiply"
	}
	return "unknown"
}

// Term is one signed reference of a linear combination.
type Term struct {
	Ref  string
	Sign int // +1 or -1
}

// Plus adds the row identified by ref.
func Plus(ref string) Term { return Term{Ref: ref, Sign: 1} }

// Minus subtracts the row identified by ref.
func Minus(ref string) Term { return Term{Ref: ref, Sign: -1} }

// Rule declares how a computed row is derived from other rows. References
// name line items, sections (meaning their subtotal row) or totals; they
// never name row numbers.
type Rule struct {
	Op      Op
	Section string // OpSum: section whose item range is summed, "" for the owning section
	Terms   []Term // OpLinear
	Ref     string // OpMultiply
	Factor  float64
}

// Sum adds up the item rows of section, or of the owning section when
// section is empty.
func Sum(section string) Rule { return Rule{Op: OpSum, Section: section} }

// Linear adds and subtracts the given rows left to right.
func Linear(terms ...Term) Rule { return Rule{Op: OpLinear, Terms: terms} }

// Multiply scales one row by a constant factor.
func Multiply(ref string, factor float64) Rule {
	return Rule{Op: OpMultiply, Ref: ref, Factor: factor}
}

// Subtotal is the closing row of a section.
type Subtotal struct {
	Label string
	Rule  Rule
}

// Section is a titled group of line items.
type Section struct {
	ID       string
	Title    string
	Banner   BannerStyle
	Group    string // optional filled banner opening a group of sections
	Items    []LineItem
	Subtotal *Subtotal
}

// Emphasis selects how a total row is styled.
type Emphasis int

const (
	EmphasisSubtotal Emphasis = iota
	EmphasisHighlight
	EmphasisGrand
)

// Total is a computed row placed relative to a section: right below it
// (attached), below it after the section gap (detached), or at the end of
// the statement when After is empty.
type Total struct {
	ID       string
	Label    string
	Rule     Rule
	After    string
	Detached bool
	Emphasis Emphasis
}

// Widths are the label and value column widths in points.
type Widths struct {
	Label float64
	Value float64
}

// Layout declares one statement type.
type Layout struct {
	Key      string // short name used by the catalog, e.g. "balance"
	Name     string // printed under the company name
	Period   Period
	Sections []Section
	Totals   []Total
	Widths   Widths // zero fields fall back to the column roles' widths
	Framed   bool   // draw side edges around each group
}

// RequiredKeys lists the input figures the layout cannot render without,
// in declaration order.
func (l Layout) RequiredKeys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, s := range l.Sections {
		for _, it := range s.Items {
			if it.Note || !it.Value.Required() || seen[it.Value.Key] {
				continue
			}
			seen[it.Value.Key] = true
			keys = append(keys, it.Value.Key)
		}
	}
	return keys
}
