// Package workbook renders statements into workbook files with the
// configured engine.
package workbook

import (
	"context"
	"fmt"
	"io"

	"github.com/aerissecure/statement"
	"github.com/aerissecure/statement/excel"
	"github.com/aerissecure/statement/grid"
	"github.com/aerissecure/statement/xlsx"
)

// Engine names a workbook writer.
type Engine string

const (
	XLSX     Engine = "xlsx"     // unioffice
	Excelize Engine = "excelize" // excelize, with formula calculation
)

// ContentType is the media type of every file Write produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ParseEngine returns the engine called name.
func ParseEngine(name string) (Engine, error) {
	switch e := Engine(name); e {
	case XLSX, Excelize:
		return e, nil
	default:
		return "", fmt.Errorf("unknown engine %q: want %s or %s", name, XLSX, Excelize)
	}
}

// Write renders l with in into a single-sheet workbook written to w.
// Nothing reaches w unless the render succeeds.
func Write(ctx context.Context, w io.Writer, e Engine, r statement.Renderer, l statement.Layout, in statement.Input) error {
	var (
		sink grid.Sink
		done = func() error { return nil }
	)
	switch e {
	case XLSX, "":
		sink = xlsx.NewSink(w, l.Name)
	case Excelize:
		s, err := excel.NewSink(w, l.Name)
		if err != nil {
			return err
		}
		sink, done = s, s.Close
	default:
		return fmt.Errorf("unknown engine %q", e)
	}

	if err := r.Render(ctx, sink, l, in); err != nil {
		_ = done()
		return err
	}
	return done()
}

// Preview renders l with in into an in-memory sheet.
func Preview(ctx context.Context, r statement.Renderer, l statement.Layout, in statement.Input) (*grid.Sheet, error) {
	sheet := grid.NewSheet(l.Name)
	if err := r.Render(ctx, sheet, l, in); err != nil {
		return nil, err
	}
	return sheet, nil
}
