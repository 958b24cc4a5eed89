package grid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheet_WriteAndEvaluate(t *testing.T) {
	// Given
	s := NewSheet("Balance Sheet")
	anchor := Cell{Row: 7, Col: 0}

	// When
	require.NoError(t, s.WriteValues(anchor, [][]any{
		{"Cash", 50000.0},
		{"Receivables", 35000},
		{"Total", nil},
	}))
	require.NoError(t, s.WriteFormulas(Cell{Row: 9, Col: 1}, [][]string{{"=SUM(B7:B8)"}}))
	require.NoError(t, s.ApplyFormat(Span(Cell{Row: 7, Col: 1}, Cell{Row: 9, Col: 1}), Format{NumberFormat: CurrencyFormat}))
	require.NoError(t, s.Commit())

	// Then
	v, err := s.Value(Cell{Row: 9, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, "85000", v.String())
	assert.Equal(t, "$85,000", s.Display(Cell{Row: 9, Col: 1}))
	assert.Equal(t, "Receivables", s.Display(Cell{Row: 8, Col: 0}))
	assert.True(t, s.Committed())
	assert.Equal(t, 3, s.Writes())

	bounds, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, "A7:B9", bounds.Ref())
}

func TestSheet_FormatsStackAndMerge(t *testing.T) {
	s := NewSheet("x")
	banner := Span(Cell{Row: 5, Col: 0}, Cell{Row: 5, Col: 1})

	require.NoError(t, s.ApplyFormat(banner, Format{Bold: true, FillColor: "4472C4", Merge: true}))
	require.NoError(t, s.ApplyFormat(banner, Format{FontColor: "FFFFFF"}))
	require.NoError(t, s.ApplyFormat(Span(Cell{Row: 1, Col: 0}, Cell{Row: 30, Col: 0}), Format{ColumnWidth: 280}))

	cd, ok := s.Cell(Cell{Row: 5, Col: 1})
	require.True(t, ok)
	assert.True(t, cd.Format.Bold)
	assert.Equal(t, "FFFFFF", cd.Format.FontColor)
	assert.False(t, cd.Format.Merge)
	assert.Equal(t, []Range{banner}, s.Merges())
	assert.Equal(t, 280.0, s.ColumnWidth(0))
}

func TestSheet_Clear(t *testing.T) {
	s := NewSheet("x")
	require.NoError(t, s.WriteValues(Cell{Row: 1, Col: 0}, [][]any{{"a", 1.0}, {"b", 2.0}}))
	require.NoError(t, s.ApplyFormat(Span(Cell{Row: 1, Col: 0}, Cell{Row: 1, Col: 1}), Format{Merge: true}))

	require.NoError(t, s.Clear(Span(Cell{Row: 1, Col: 0}, Cell{Row: 1, Col: 1})))

	_, ok := s.Cell(Cell{Row: 1, Col: 0})
	assert.False(t, ok)
	assert.Equal(t, "b", s.Display(Cell{Row: 2, Col: 0}))
	assert.Empty(t, s.Merges())
}

func TestSheet_CircularReference(t *testing.T) {
	s := NewSheet("x")
	require.NoError(t, s.WriteFormulas(Cell{Row: 1, Col: 1}, [][]string{{"=B2"}, {"=B1"}}))

	_, err := s.Value(Cell{Row: 1, Col: 1})
	assert.Error(t, err)
	assert.Equal(t, "#ERR", s.Display(Cell{Row: 1, Col: 1}))
}

func TestSheet_NonFiniteValue(t *testing.T) {
	s := NewSheet("x")
	require.NoError(t, s.WriteValues(Cell{Row: 1, Col: 1}, [][]any{{math.NaN()}, {math.Inf(-1)}}))
	require.NoError(t, s.WriteFormulas(Cell{Row: 3, Col: 1}, [][]string{{"=SUM(B1:B2)"}}))

	for _, row := range []int{1, 2, 3} {
		assert.NotPanics(t, func() {
			_, err := s.Value(Cell{Row: row, Col: 1})
			assert.ErrorContains(t, err, "non-finite")
		})
		assert.Equal(t, "#ERR", s.Display(Cell{Row: row, Col: 1}))
	}
}

func TestSheet_FailOn(t *testing.T) {
	boom := errors.New("sheet locked")
	s := NewSheet("x")
	s.FailOn = OpCommit
	s.FailErr = boom

	require.NoError(t, s.WriteValues(Cell{Row: 1, Col: 0}, [][]any{{"a"}}))
	assert.ErrorIs(t, s.Commit(), boom)
	assert.False(t, s.Committed())
}
