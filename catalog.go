package statement

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownStatement is returned by Lookup for keys that are not registered.
var ErrUnknownStatement = errors.New("unknown statement")

var catalog = map[string]func() Layout{
	"balance":  BalanceSheet,
	"income":   IncomeStatement,
	"cashflow": CashFlowStatement,
}

// Lookup returns the layout registered under key.
func Lookup(key string) (Layout, error) {
	build, ok := catalog[key]
	if !ok {
		return Layout{}, fmt.Errorf("%w %q (have %v)", ErrUnknownStatement, key, Keys())
	}
	return build(), nil
}

// Keys returns the registered layout keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Layouts returns every registered layout, ordered by key.
func Layouts() []Layout {
	out := make([]Layout, 0, len(catalog))
	for _, k := range Keys() {
		out = append(out, catalog[k]())
	}
	return out
}
