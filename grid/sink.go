package grid

// Sink is the writable grid a statement is rendered into. Every write before
// Commit is pending; Commit is the single point where a sink makes its
// writes visible (flushes a workbook, saves a file). Sinks are not safe for
// concurrent renders.
type Sink interface {
	// Clear removes values, formulas, formats and merges inside r.
	Clear(r Range) error
	// WriteValues writes a block of literal values with its top-left cell
	// at anchor. nil entries leave the cell untouched.
	WriteValues(anchor Cell, values [][]any) error
	// WriteFormulas writes a block of formulas ("=SUM(B7:B10)") with its
	// top-left cell at anchor. Empty entries leave the cell untouched.
	WriteFormulas(anchor Cell, formulas [][]string) error
	// ApplyFormat layers f onto every cell of r.
	ApplyFormat(r Range, f Format) error
	// Commit confirms all pending writes.
	Commit() error
}
