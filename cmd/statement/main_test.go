package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const balanceYAML = `company: Contoso Ltd
date: 2024-12-31
figures:
  cash: 50000
  accountsReceivable: 35000
  inventory: 45000
  prepaidExpenses: 5000
  ppe: 200000
  depreciation: 50000
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "balance    Balance Sheet")
	assert.Contains(t, out, "requires: cash, accountsReceivable")
	assert.Contains(t, out, "cashflow")
}

func TestRenderThenInspect(t *testing.T) {
	// Given an input file
	dir := t.TempDir()
	input := filepath.Join(dir, "balance.yaml")
	require.NoError(t, os.WriteFile(input, []byte(balanceYAML), 0o600))

	for _, engine := range []string{"xlsx", "excelize"} {
		t.Run(engine, func(t *testing.T) {
			// When it is rendered
			output := filepath.Join(dir, engine+".xlsx")
			_, err := run(t, "render", "balance", "-i", input, "-o", output, "--engine", engine)
			require.NoError(t, err)

			// Then the workbook can be inspected
			out, err := run(t, "inspect", output)
			require.NoError(t, err)
			assert.Contains(t, out, "TOTAL ASSETS")
			assert.Contains(t, out, "$340,000")
		})
	}
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "income.yaml")
	require.NoError(t, os.WriteFile(input, []byte("company: Fabrikam\n"), 0o600))

	out, err := run(t, "preview", "income", "-i", input, "--html")
	require.NoError(t, err)
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "$127,500")
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(input, []byte("date: 2024-12-31\n"), 0o600))

	_, err := run(t, "render", "balance", "-i", input, "-o", filepath.Join(dir, "x.xlsx"))
	assert.ErrorContains(t, err, "missing input cash")
	assert.NoFileExists(t, filepath.Join(dir, "x.xlsx"))

	nan := filepath.Join(dir, "nan.yaml")
	require.NoError(t, os.WriteFile(nan, []byte("figures:\n  cash: .nan\n"), 0o600))
	_, err = run(t, "render", "income", "-i", nan, "-o", filepath.Join(dir, "nan.xlsx"))
	assert.ErrorContains(t, err, "non-finite input cash")
	assert.NoFileExists(t, filepath.Join(dir, "nan.xlsx"))

	_, err = run(t, "render", "trial", "-i", input)
	assert.ErrorContains(t, err, `unknown statement "trial"`)

	_, err = run(t, "render", "balance", "-i", input, "--engine", "pdf")
	assert.ErrorContains(t, err, `unknown engine "pdf"`)
}
