package grid

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// The evaluator understands the formulas the statement renderer emits:
// numbers, cell references, SUM over ranges or lists, + - * / and
// parentheses. It is not a spreadsheet engine.

type exprNode interface {
	eval(lookup func(Cell) (decimal.Decimal, error)) (decimal.Decimal, error)
	refs(out []Cell) []Cell
}

type numberNode struct{ v decimal.Decimal }

func (n numberNode) eval(func(Cell) (decimal.Decimal, error)) (decimal.Decimal, error) {
	return n.v, nil
}
func (n numberNode) refs(out []Cell) []Cell { return out }

type cellNode struct{ c Cell }

func (n cellNode) eval(lookup func(Cell) (decimal.Decimal, error)) (decimal.Decimal, error) {
	return lookup(n.c)
}
func (n cellNode) refs(out []Cell) []Cell { return append(out, n.c) }

type rangeNode struct{ r Range }

func (n rangeNode) eval(lookup func(Cell) (decimal.Decimal, error)) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range n.r.Cells() {
		v, err := lookup(c)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(v)
	}
	return sum, nil
}
func (n rangeNode) refs(out []Cell) []Cell { return append(out, n.r.Cells()...) }

type sumNode struct{ args []exprNode }

func (n sumNode) eval(lookup func(Cell) (decimal.Decimal, error)) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range n.args {
		v, err := a.eval(lookup)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(v)
	}
	return sum, nil
}

func (n sumNode) refs(out []Cell) []Cell {
	for _, a := range n.args {
		out = a.refs(out)
	}
	return out
}

type negNode struct{ x exprNode }

func (n negNode) eval(lookup func(Cell) (decimal.Decimal, error)) (decimal.Decimal, error) {
	v, err := n.x.eval(lookup)
	return v.Neg(), err
}
func (n negNode) refs(out []Cell) []Cell { return n.x.refs(out) }

type binaryNode struct {
	op   byte
	l, r exprNode
}

func (n binaryNode) eval(lookup func(Cell) (decimal.Decimal, error)) (decimal.Decimal, error) {
	l, err := n.l.eval(lookup)
	if err != nil {
		return decimal.Zero, err
	}
	r, err := n.r.eval(lookup)
	if err != nil {
		return decimal.Zero, err
	}
	switch n.op {
	case '+':
		return l.Add(r), nil
	case '-':
		return l.Sub(r), nil
	case '*':
		return l.Mul(r), nil
	default:
		if r.IsZero() {
			return decimal.Zero, fmt.Errorf("division by zero")
		}
		return l.Div(r), nil
	}
}

func (n binaryNode) refs(out []Cell) []Cell { return n.r.refs(n.l.refs(out)) }

// Evaluate computes formula, resolving cell references through lookup.
func Evaluate(formula string, lookup func(Cell) (decimal.Decimal, error)) (decimal.Decimal, error) {
	n, err := parseFormula(formula)
	if err != nil {
		return decimal.Zero, err
	}
	return n.eval(lookup)
}

// References lists every cell formula reads, ranges expanded, in order of
// appearance.
func References(formula string) ([]Cell, error) {
	n, err := parseFormula(formula)
	if err != nil {
		return nil, err
	}
	return n.refs(nil), nil
}

type formulaParser struct {
	src string
	pos int
}

func parseFormula(formula string) (exprNode, error) {
	p := &formulaParser{src: strings.TrimPrefix(strings.TrimSpace(formula), "=")}
	n, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("formula %q: %w", formula, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("formula %q: unexpected %q at %d", formula, p.src[p.pos:], p.pos)
	}
	return n, nil
}

func (p *formulaParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *formulaParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *formulaParser) expr() (exprNode, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
}

func (p *formulaParser) term() (exprNode, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
}

func (p *formulaParser) factor() (exprNode, error) {
	switch c := p.peek(); {
	case c == 0:
		return nil, fmt.Errorf("unexpected end")
	case c == '-':
		p.pos++
		x, err := p.factor()
		if err != nil {
			return nil, err
		}
		return negNode{x: x}, nil
	case c == '+':
		p.pos++
		return p.factor()
	case c == '(':
		p.pos++
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("missing ) at %d", p.pos)
		}
		p.pos++
		return x, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.number()
	case unicode.IsLetter(rune(c)) || c == '$':
		return p.word()
	default:
		return nil, fmt.Errorf("unexpected %q at %d", c, p.pos)
	}
}

func (p *formulaParser) number() (exprNode, error) {
	start := p.pos
	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}
	v, err := decimal.NewFromString(p.src[start:p.pos])
	if err != nil {
		return nil, err
	}
	return numberNode{v: v}, nil
}

func (p *formulaParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '$' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *formulaParser) word() (exprNode, error) {
	word := p.ident()
	if strings.EqualFold(word, "SUM") && p.peek() == '(' {
		p.pos++
		var args []exprNode
		for {
			a, err := p.sumArg()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case ')':
				p.pos++
				return sumNode{args: args}, nil
			default:
				return nil, fmt.Errorf("malformed SUM at %d", p.pos)
			}
		}
	}
	c, err := ParseCell(word)
	if err != nil {
		return nil, err
	}
	return cellNode{c: c}, nil
}

func (p *formulaParser) sumArg() (exprNode, error) {
	save := p.pos
	p.skipSpace()
	if c := p.peek(); unicode.IsLetter(rune(c)) || c == '$' {
		from, err := ParseCell(p.ident())
		if err == nil && p.peek() == ':' {
			p.pos++
			p.skipSpace()
			to, err := ParseCell(p.ident())
			if err != nil {
				return nil, err
			}
			return rangeNode{r: Span(from, to)}, nil
		}
	}
	p.pos = save
	return p.expr()
}
