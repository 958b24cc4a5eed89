package workbook

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/statement"
	"github.com/aerissecure/statement/grid"
	"github.com/aerissecure/statement/xlsx"
)

func balanceInput() statement.Input {
	return statement.Input{
		Company: "Contoso Ltd",
		Date:    "2024-12-31",
		Figures: map[string]float64{
			"cash": 50000, "accountsReceivable": 35000, "inventory": 45000,
			"prepaidExpenses": 5000, "ppe": 200000, "depreciation": 50000,
		},
	}
}

func TestWrite_Engines(t *testing.T) {
	for _, e := range []Engine{XLSX, Excelize} {
		t.Run(string(e), func(t *testing.T) {
			// Given a balance sheet written with the engine
			var buf bytes.Buffer
			require.NoError(t, Write(context.Background(), &buf, e, statement.Renderer{}, statement.BalanceSheet(), balanceInput()))

			// When the file is read back
			sheet, err := xlsx.Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			require.NoError(t, err)

			// Then the formulas evaluate to the expected totals
			v, err := sheet.Value(grid.Cell{Row: 43, Col: 1})
			require.NoError(t, err)
			assert.Equal(t, "367000", v.String())
		})
	}
}

func TestWrite_FailedRenderWritesNothing(t *testing.T) {
	for _, e := range []Engine{XLSX, Excelize} {
		var buf bytes.Buffer
		err := Write(context.Background(), &buf, e, statement.Renderer{}, statement.BalanceSheet(), statement.Input{})
		assert.ErrorIs(t, err, statement.ErrMissingInput)
		assert.Zero(t, buf.Len())
	}
}

func TestParseEngine(t *testing.T) {
	e, err := ParseEngine("excelize")
	require.NoError(t, err)
	assert.Equal(t, Excelize, e)

	_, err = ParseEngine("pdf")
	assert.ErrorContains(t, err, `unknown engine "pdf"`)
}

func TestPreview(t *testing.T) {
	sheet, err := Preview(context.Background(), statement.Renderer{}, statement.IncomeStatement(), statement.Input{Company: "c"})
	require.NoError(t, err)
	assert.Equal(t, "Income Statement", sheet.Name)

	v, err := sheet.Value(grid.Cell{Row: 30, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, "127500", v.String())
}
