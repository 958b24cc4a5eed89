package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerissecure/statement"
	"github.com/aerissecure/statement/grid"
	"github.com/aerissecure/statement/workbook"
	"github.com/aerissecure/statement/xlsx"
)

const balanceJSON = `{
	"date": "2024-12-31",
	"figures": {
		"cash": 50000, "accountsReceivable": 35000, "inventory": 45000,
		"prepaidExpenses": 5000, "ppe": 200000, "depreciation": 50000
	}
}`

func newAPI(t *testing.T, logs *bytes.Buffer) http.Handler {
	t.Helper()
	api := NewWebAPI(zerolog.New(logs), Config{
		Engine:  workbook.XLSX,
		Company: "Contoso Ltd",
	})
	return api.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListStatements(t *testing.T) {
	var logs bytes.Buffer
	rec := do(t, newAPI(t, &logs), http.MethodGet, "/api/v1/statements", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []Statement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "balance", got[0].Key)
	assert.Equal(t, "Balance Sheet", got[0].Name)
	assert.Contains(t, got[0].Required, "cash")
	assert.Equal(t, "cashflow", got[1].Key)
	assert.Empty(t, got[1].Required)

	assert.Contains(t, logs.String(), `"message":"request served"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

func TestRenderStatement(t *testing.T) {
	// Given a balance sheet request
	var logs bytes.Buffer
	rec := do(t, newAPI(t, &logs), http.MethodPost, "/api/v1/statements/balance", balanceJSON)

	// Then a workbook attachment comes back
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, workbook.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="balance.xlsx"`, rec.Header().Get("Content-Disposition"))

	// And it holds the rendered statement with the default company
	data := rec.Body.Bytes()
	sheet, err := xlsx.Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	cd, ok := sheet.Cell(grid.Cell{Row: 1})
	require.True(t, ok)
	assert.Equal(t, "Contoso Ltd", cd.Value)
	v, err := sheet.Value(grid.Cell{Row: 20, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, "340000", v.String())

	// And the render was logged with the request id
	assert.Contains(t, logs.String(), `"render_id"`)
	assert.Contains(t, logs.String(), `"request_id"`)
}

func TestPreviewStatement(t *testing.T) {
	var logs bytes.Buffer
	rec := do(t, newAPI(t, &logs), http.MethodPost, "/api/v1/statements/income/preview", `{"company":"Fabrikam"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Fabrikam")
	assert.Contains(t, rec.Body.String(), "$127,500")
}

func TestRenderStatement_Errors(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		body        string
		wantStatus  int
		wantError   string
		wantMissing []string
	}{
		{
			name:       "unknown kind",
			path:       "/api/v1/statements/trial",
			body:       "{}",
			wantStatus: http.StatusNotFound,
			wantError:  `unknown statement "trial"`,
		},
		{
			name:        "missing figures",
			path:        "/api/v1/statements/balance",
			body:        `{"figures":{"cash":1}}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantError:   "missing input",
			wantMissing: []string{"accountsReceivable", "inventory", "prepaidExpenses", "ppe", "depreciation"},
		},
		{
			name:       "bad json",
			path:       "/api/v1/statements/balance/preview",
			body:       `{"figures":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "decode input",
		},
		{
			name:       "unknown field",
			path:       "/api/v1/statements/income",
			body:       `{"revenue":1}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "decode input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			rec := do(t, newAPI(t, &logs), http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var got errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Contains(t, got.Error, tt.wantError)
			assert.Equal(t, tt.wantMissing, got.Missing)
		})
	}
}

func TestFail_StructuralErrorIsInternal(t *testing.T) {
	h := NewHandler(statement.Renderer{}, workbook.XLSX, "")
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	h.fail(rec, req, &statement.LayoutError{Context: "section assets", Reason: "no items"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "no items")
}
